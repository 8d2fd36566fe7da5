package authenticator

// TokenEngine signs and verifies tokens which carry an object of type T.
type TokenEngine[T any] interface {
	Generate(sub string, obj T) (string, error)
	Verify(token string) (T, error)
}
