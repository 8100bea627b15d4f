package model

type Category struct {
	ID          string `json:"category_id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CategoryPatch carries a partial update: only non-nil fields are applied.
type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (patch CategoryPatch) Apply(c *Category) {
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
}
