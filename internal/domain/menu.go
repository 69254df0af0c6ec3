package domain

import "github.com/google/uuid"

const (
	minRequiredGroups = 1
	maxRequiredGroups = 3
)

// Option is a value within an option group, unique by (name, price). An
// option is paid when its price is positive.
type Option struct {
	Name       string
	PriceCents int64
}

func (o Option) Paid() bool { return o.PriceCents > 0 }

// OptionGroup is a named child entity of exactly one menu.
type OptionGroup struct {
	ID       string
	Name     string
	Required bool
	Options  []Option
}

func (g *OptionGroup) hasPaidOption() bool {
	for _, o := range g.Options {
		if o.Paid() {
			return true
		}
	}
	return false
}

// Menu owns its option groups and the one-way draft-to-open transition. A new
// menu starts closed and becomes visible to customers only through Open.
type Menu struct {
	ID             string
	ShopID         string
	Name           string
	Description    string
	BasePriceCents int64
	IsOpen         bool
	OptionGroups   []OptionGroup
}

func NewMenu(shopID, name, description string, basePriceCents int64) (*Menu, error) {
	if shopID == "" {
		return nil, ErrInvalidShopID
	}
	return &Menu{
		ID:             uuid.NewString(),
		ShopID:         shopID,
		Name:           name,
		Description:    description,
		BasePriceCents: basePriceCents,
	}, nil
}

// AddOptionGroup appends a group with a menu-unique name. Once the menu is
// open the 1-3 required-group ceiling is enforced incrementally.
func (m *Menu) AddOptionGroup(name string, required bool) (*OptionGroup, error) {
	for _, g := range m.OptionGroups {
		if g.Name == name {
			return nil, ErrDuplicateOptionGroupName
		}
	}
	if m.IsOpen && required && m.requiredGroupCount() >= maxRequiredGroups {
		return nil, ErrMaxRequiredOptionGroups
	}
	m.OptionGroups = append(m.OptionGroups, OptionGroup{
		ID:       uuid.NewString(),
		Name:     name,
		Required: required,
	})
	return &m.OptionGroups[len(m.OptionGroups)-1], nil
}

// AddOption adds an option to a group, unique by (name, price) within it.
func (m *Menu) AddOption(groupID, name string, priceCents int64) error {
	if priceCents < 0 {
		return ErrInvalidOptionPrice
	}
	g := m.findGroup(groupID)
	if g == nil {
		return ErrOptionGroupNotFound
	}
	for _, o := range g.Options {
		if o.Name == name && o.PriceCents == priceCents {
			return ErrDuplicateOption
		}
	}
	g.Options = append(g.Options, Option{Name: name, PriceCents: priceCents})
	return nil
}

// Open transitions the menu from draft to open. Checks run in a fixed order
// and the first violation wins; there is no way back once open.
func (m *Menu) Open() (MenuOpened, error) {
	if err := m.openViolation(); err != nil {
		return MenuOpened{}, err
	}
	if m.IsOpen {
		return MenuOpened{}, ErrMenuAlreadyOpen
	}
	m.IsOpen = true
	return MenuOpened{
		MenuID:      m.ID,
		ShopID:      m.ShopID,
		Name:        m.Name,
		Description: m.Description,
	}, nil
}

// RemoveOptionGroup deletes a group. On an open menu the remaining groups
// must still satisfy the open-menu rules; any violation surfaces as the
// single umbrella error.
func (m *Menu) RemoveOptionGroup(groupID string) error {
	idx := -1
	for i := range m.OptionGroups {
		if m.OptionGroups[i].ID == groupID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrOptionGroupNotFound
	}

	if m.IsOpen {
		remaining := Menu{OptionGroups: append(append([]OptionGroup{}, m.OptionGroups[:idx]...), m.OptionGroups[idx+1:]...)}
		if remaining.openViolation() != nil {
			return ErrCannotDeleteRequiredGroup
		}
	}

	m.OptionGroups = append(m.OptionGroups[:idx], m.OptionGroups[idx+1:]...)
	return nil
}

// ChangeOptionGroupName renames a group, keeping names unique on the menu.
func (m *Menu) ChangeOptionGroupName(groupID, newName string) error {
	g := m.findGroup(groupID)
	if g == nil {
		return ErrOptionGroupNotFound
	}
	for _, other := range m.OptionGroups {
		if other.ID != groupID && other.Name == newName {
			return ErrDuplicateOptionGroupName
		}
	}
	g.Name = newName
	return nil
}

// ChangeOptionName renames an option identified by its current (name, price)
// tuple. Per-group uniqueness of the tuple makes the match unambiguous.
func (m *Menu) ChangeOptionName(groupID, currentName string, currentPriceCents int64, newName string) error {
	g := m.findGroup(groupID)
	if g == nil {
		return ErrOptionGroupNotFound
	}
	idx := -1
	for i, o := range g.Options {
		if o.Name == currentName && o.PriceCents == currentPriceCents {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrOptionNotFound
	}
	for i, o := range g.Options {
		if i != idx && o.Name == newName && o.PriceCents == currentPriceCents {
			return ErrDuplicateOption
		}
	}
	g.Options[idx].Name = newName
	return nil
}

// openViolation evaluates the structural rules in publication order; nil
// means the menu is fit to be shown.
func (m *Menu) openViolation() error {
	if len(m.OptionGroups) == 0 {
		return ErrInsufficientOptionGroups
	}
	required := m.requiredGroupCount()
	if required < minRequiredGroups || required > maxRequiredGroups {
		return ErrInvalidRequiredGroupCount
	}
	for i := range m.OptionGroups {
		if m.OptionGroups[i].hasPaidOption() {
			return nil
		}
	}
	return ErrNoPaidOptionGroup
}

func (m *Menu) requiredGroupCount() int {
	n := 0
	for _, g := range m.OptionGroups {
		if g.Required {
			n++
		}
	}
	return n
}

func (m *Menu) findGroup(groupID string) *OptionGroup {
	for i := range m.OptionGroups {
		if m.OptionGroups[i].ID == groupID {
			return &m.OptionGroups[i]
		}
	}
	return nil
}
