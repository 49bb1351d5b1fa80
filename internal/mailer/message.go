package mailer

// Message is one outgoing email. Password is the sender's app password.
type Message struct {
	From        string
	Password    string
	To          string
	Subject     string
	Body        string
	Attachments []string
}

// Delivery is the outcome of one send attempt.
type Delivery struct {
	Sent bool   `json:"sent"`
	Err  string `json:"error,omitempty"`
}

// Status renders the human-readable delivery line shown to the user.
func (d Delivery) Status() string {
	if d.Sent {
		return "Email sent successfully!"
	}
	return "Failed to send email: " + d.Err
}

func failed(err error) Delivery {
	return Delivery{Err: err.Error()}
}
