// File: internal/registration/model.go
package registration

import (
	"encoding/json"
	"fmt"
)

// Response messages returned by the registrar.
const (
	MsgInvalidRequest   = "Dados de cadastro inválidos"
	MsgAlreadyExists    = "Usuário já existe."
	MsgLookupFailed     = "Erro ao verificar usuário"
	MsgSignUpFailed     = "Erro ao criar usuário"
	MsgPublishFailed    = "Erro ao publicar notificação"
	MsgSubscribeFailed  = "Erro ao criar a assinatura"
	MsgCreated          = "Usuário cadastrado com sucesso!"
	MsgCreatedAndNotify = "Usuário cadastrado com sucesso, notificado e assinatura criada!"
)

// Request is a validated registration.
type Request struct {
	UserName   string `json:"userName" validate:"required,notblank"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,notblank"`
	NationalID string `json:"nationalId" validate:"required,notblank"`
	Address    string `json:"address" validate:"required,notblank"`
}

// requestBody is the accepted JSON shape. cpf, endereco and identifier are older field names.
type requestBody struct {
	UserName   string     `json:"userName"`
	Identifier string     `json:"identifier"`
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	NationalID flexString `json:"nationalId"`
	CPF        flexString `json:"cpf"`
	Address    flexString `json:"address"`
	Endereco   flexString `json:"endereco"`
}

func (b requestBody) toRequest() Request {
	return Request{
		UserName:   firstNonEmpty(b.UserName, b.Identifier),
		Email:      b.Email,
		Password:   b.Password,
		NationalID: firstNonEmpty(string(b.NationalID), string(b.CPF)),
		Address:    firstNonEmpty(string(b.Address), string(b.Endereco)),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// flexString accepts a JSON string or number. Clients send house numbers and CPFs both ways.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// Status is the final state of a registration.
type Status int

const (
	StatusCreated Status = iota
	StatusAlreadyExists
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusAlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// Result is returned when the pipeline ran to completion or stopped on an existing account.
type Result struct {
	Status  Status `json:"-"`
	Message string `json:"message"`
}

// Outcome is what the ledger records for an attempt.
type Outcome string

const (
	OutcomeCreated         Outcome = "created"
	OutcomeAlreadyExists   Outcome = "already_exists"
	OutcomeLookupFailed    Outcome = "lookup_failed"
	OutcomeSignUpFailed    Outcome = "signup_failed"
	OutcomeNotifyFailed    Outcome = "notify_failed"
	OutcomeSubscribeFailed Outcome = "subscribe_failed"
)

// AccountCreated reports whether the account exists at the provider after this outcome.
func (o Outcome) AccountCreated() bool {
	switch o {
	case OutcomeCreated, OutcomeNotifyFailed, OutcomeSubscribeFailed:
		return true
	default:
		return false
	}
}
