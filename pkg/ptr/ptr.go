package ptr

// Ptr возвращает указатель на копию значения
func Ptr[T any](v T) *T {
	return &v
}

// Value возвращает значение по указателю или значение по умолчанию для nil
func Value[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
