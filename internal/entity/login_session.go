package entity

import "time"

type LoginStep string

const (
	LoginStepAwaitEmail    LoginStep = "await_email"
	LoginStepAwaitPassword LoginStep = "await_password"
)

// LoginSession is the in-flight /login conversation of one chat.
type LoginSession struct {
	ChatID    int64
	Step      LoginStep
	Email     string
	StartedAt time.Time
}
