package view

import (
	"github.com/alfredjeanlab/glossary/internal/idgen"
)

const (
	linkPrefix     = idgen.LinkPrefix
	relationPrefix = idgen.RelationPrefix
)

func rowID(prefix string) string {
	return idgen.MustNew(prefix)
}

// editDraft applies fn to the open draft. It fails unless the edit form is
// open. Draft edits never touch the service or the term store.
func (c *Coordinator) editDraft(fn func(d *Draft) error) error {
	c.mu.Lock()
	if c.focus.Kind != FocusEditing || c.focus.Draft == nil {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	if err := fn(c.focus.Draft); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()
	c.notify()
	return nil
}

// SetDraftName sets the name of a new term. An existing term's name is its
// identity and cannot be changed.
func (c *Coordinator) SetDraftName(name string) error {
	return c.editDraft(func(d *Draft) error {
		if !d.IsNew() {
			return ErrInvalidTransition
		}
		d.Name = name
		return nil
	})
}

// SetDraftText sets the definition text.
func (c *Coordinator) SetDraftText(text string) error {
	return c.editDraft(func(d *Draft) error {
		d.Text = text
		return nil
	})
}

// AddDraftLink appends a link row and returns its ID.
func (c *Coordinator) AddDraftLink(url, title string) (string, error) {
	id := c.newID(linkPrefix)
	err := c.editDraft(func(d *Draft) error {
		d.Links = append(d.Links, DraftLink{ID: id, URL: url, Title: title})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateDraftLink replaces the contents of a link row.
func (c *Coordinator) UpdateDraftLink(id, url, title string) error {
	return c.editDraft(func(d *Draft) error {
		for i := range d.Links {
			if d.Links[i].ID == id {
				d.Links[i].URL, d.Links[i].Title = url, title
				return nil
			}
		}
		return ErrNoSuchRow
	})
}

// RemoveDraftLink removes a link row.
func (c *Coordinator) RemoveDraftLink(id string) error {
	return c.editDraft(func(d *Draft) error {
		for i := range d.Links {
			if d.Links[i].ID == id {
				d.Links = append(d.Links[:i], d.Links[i+1:]...)
				return nil
			}
		}
		return ErrNoSuchRow
	})
}

// AddDraftRelation appends a relation row and returns its ID.
func (c *Coordinator) AddDraftRelation(toTerm, relationType string) (string, error) {
	id := c.newID(relationPrefix)
	err := c.editDraft(func(d *Draft) error {
		d.Relations = append(d.Relations, DraftRelation{ID: id, ToTerm: toTerm, RelationType: relationType})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateDraftRelation replaces the contents of a relation row.
func (c *Coordinator) UpdateDraftRelation(id, toTerm, relationType string) error {
	return c.editDraft(func(d *Draft) error {
		for i := range d.Relations {
			if d.Relations[i].ID == id {
				d.Relations[i].ToTerm, d.Relations[i].RelationType = toTerm, relationType
				return nil
			}
		}
		return ErrNoSuchRow
	})
}

// RemoveDraftRelation removes a relation row.
func (c *Coordinator) RemoveDraftRelation(id string) error {
	return c.editDraft(func(d *Draft) error {
		for i := range d.Relations {
			if d.Relations[i].ID == id {
				d.Relations = append(d.Relations[:i], d.Relations[i+1:]...)
				return nil
			}
		}
		return ErrNoSuchRow
	})
}
