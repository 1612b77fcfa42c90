package domain

// Letter is a generated request artifact: the recipient address, a subject
// naming the requester, and the plain-text body sent as the email content.
type Letter struct {
	To      string
	Subject string
	Body    string
}
