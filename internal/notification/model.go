package notification

import "encoding/json"

// SignupSubject is the subject line of the new-account notification.
const SignupSubject = "Novo Cadastro de Usuário"

// ProtocolEmail is the subscription protocol used for registrants.
const ProtocolEmail = "email"

// SignupPayload describes a newly registered account.
type SignupPayload struct {
	UserName   string `json:"userName"`
	Email      string `json:"email"`
	NationalID string `json:"nationalId"`
	Address    string `json:"address"`
}

// Event is a message published to a topic.
type Event struct {
	Topic   string
	Subject string
	Payload SignupPayload
}

// Message returns the JSON body of the event.
func (e Event) Message() (string, error) {
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Subscription asks the notification service to deliver a topic to an endpoint.
type Subscription struct {
	Topic    string `json:"topic"`
	Protocol string `json:"protocol"`
	Endpoint string `json:"endpoint"`
}
