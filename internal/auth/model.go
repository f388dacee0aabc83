// File: internal/auth/model.go
package auth

// Response messages returned by the authenticator.
const (
	MsgMissingUserName = "Nome de usuário não fornecido"
	MsgMissingPassword = "Senha não fornecida"
	MsgAuthFailed      = "Falha na autenticação"
	MsgUserNotFound    = "Usuário não encontrado"
	MsgAuthSucceeded   = "Autenticação bem-sucedida"
)

// Request holds the credentials of a login attempt.
type Request struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// credentialsBody is the JSON body accepted by the authenticator. identifier is an alias of userName.
type credentialsBody struct {
	UserName   string `json:"userName"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Result is returned on a successful login. Profile fields are null when the provider has no value.
type Result struct {
	Message    string  `json:"message"`
	Email      *string `json:"email"`
	Address    *string `json:"address"`
	NationalID *string `json:"nationalId"`
}
