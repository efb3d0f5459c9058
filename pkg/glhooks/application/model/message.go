package model

type Message struct {
	Sender     string
	Recipients []string
	Subject    string
	HTMLBody   string
}
