package domain

// Category groups tags (theme, mechanics, ...). It is an open key: administrators
// may introduce new categories alongside a new tag.
type Category string

// Built-in categories.
const (
	CategoryTheme       Category = "theme"
	CategoryType        Category = "type"
	CategoryMechanics   Category = "mechanics"
	CategoryInteraction Category = "interaction"
)

// BuiltinCategories returns the fixed categories in display order.
func BuiltinCategories() []Category {
	return []Category{CategoryTheme, CategoryType, CategoryMechanics, CategoryInteraction}
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}
