package gateway

import "context"

// CredentialProvider источник токена сессии. Пустой токен означает, что
// пользователь не вошёл.
type CredentialProvider interface {
	Credential(ctx context.Context) (string, error)
}

// CredentialFunc адаптер для функций
type CredentialFunc func(ctx context.Context) (string, error)

func (f CredentialFunc) Credential(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticCredentials фиксированный токен, например из конфига
type StaticCredentials string

func (s StaticCredentials) Credential(context.Context) (string, error) {
	return string(s), nil
}
