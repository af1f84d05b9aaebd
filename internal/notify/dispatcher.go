package notify

import "log"

type Message struct {
	To      string
	Subject string
	Body    string
}

// Dispatcher delivers mail off the request path. Same shape as the audit
// dispatcher: bounded queue, drop on overflow, never fail the API call.
type Dispatcher struct {
	mailer *Mailer
	queue  chan Message
}

func NewDispatcher(mailer *Mailer) *Dispatcher {
	d := &Dispatcher{
		mailer: mailer,
		queue:  make(chan Message, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for msg := range d.queue {
		if d.mailer == nil {
			continue
		}
		if err := d.mailer.Send(msg); err != nil {
			log.Println("mail error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(msg Message) {
	if d == nil {
		return
	}

	select {
	case d.queue <- msg:
	default:
		log.Println("mail queue full, dropping message")
	}
}
