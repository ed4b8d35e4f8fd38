package models

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Group{},
		&Post{},
		&Comment{},
		&Follow{},
		&Like{},
	}
}
