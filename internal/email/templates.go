package email

import (
	"bytes"
	"fmt"
	"html/template"
	texttemplate "text/template"
)

const requestSubject = "New medicine request from %s"

var requestHTML = template.Must(template.New("request_html").Parse(`<p>Hello {{.BHWName}},</p>
<p><strong>{{.ResidentName}}</strong> submitted a new request for <strong>{{.MedicineName}}</strong>.</p>
<p>Please review it in the MediTrack health worker portal.</p>`))

var requestText = texttemplate.Must(texttemplate.New("request_text").Parse(`Hello {{.BHWName}},

{{.ResidentName}} submitted a new request for {{.MedicineName}}.
Please review it in the MediTrack health worker portal.
`))

type requestData struct {
	BHWName      string
	ResidentName string
	MedicineName string
}

// RenderMedicineRequest builds the "new request" email sent to a health worker.
func RenderMedicineRequest(to, bhwName, residentName, medicineName string) (*Message, error) {
	data := requestData{BHWName: bhwName, ResidentName: residentName, MedicineName: medicineName}

	var html, text bytes.Buffer
	if err := requestHTML.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render email: %w", err)
	}
	if err := requestText.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to render email: %w", err)
	}

	return &Message{
		To:      to,
		Subject: fmt.Sprintf(requestSubject, residentName),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
