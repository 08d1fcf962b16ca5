package email

import (
	"context"
	"errors"
)

// ErrDisabled is returned by senders that deliver nothing, such as when SMTP
// is switched off.
var ErrDisabled = errors.New("email delivery is disabled")

// Service delivers portal emails. Implementations must honour ctx cancellation
// where the transport allows it.
type Service interface {
	SendMedicineRequestNotificationToBHW(ctx context.Context, to, bhwName, residentName, medicineName string) error
}

// Message is a rendered email ready for a transport.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}
