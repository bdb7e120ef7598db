package mailer

import (
	"bytes"
	"html/template"
)

type message struct {
	subject string
	body    *template.Template
}

const layout = `<!DOCTYPE html>
<html><body style="font-family: sans-serif; color: #1f2937;">
<h2 style="color: #0369a1;">Fishmap</h2>
<p>Halo {{ .Name }},</p>
{{ template "content" . }}
<p style="color: #6b7280; font-size: 12px;">Email ini dikirim otomatis, mohon tidak membalas.</p>
</body></html>`

func newMessage(subject string, content string) message {
	t := template.Must(template.New("layout").Parse(layout))
	template.Must(t.New("content").Parse(content))
	return message{subject: subject, body: t}
}

var (
	otpMessage = newMessage(
		"Kode Verifikasi Fishmap",
		`<p>Kode verifikasi Anda:</p>
<p style="font-size: 28px; letter-spacing: 6px;"><b>{{ .Code }}</b></p>
<p>Kode berlaku selama {{ .TTL }} menit.</p>`,
	)
	welcomeMessage = newMessage(
		"Selamat Datang di Fishmap",
		`<p>Email Anda telah terverifikasi. Selamat mengidentifikasi ikan!</p>`,
	)
	catalogReviewMessage = newMessage(
		"Permintaan Akses Katalog Sedang Ditinjau",
		`<p>Permintaan akses katalog Anda telah kami terima dan sedang ditinjau oleh admin.</p>`,
	)
	catalogApprovedMessage = newMessage(
		"Akses Katalog Disetujui",
		`<p>Permintaan akses katalog Anda telah <b>disetujui</b>. Anda sekarang dapat menyimpan hasil identifikasi ke katalog.</p>`,
	)
	catalogRejectedMessage = newMessage(
		"Akses Katalog Ditolak",
		`<p>Permintaan akses katalog Anda <b>ditolak</b>.</p>
<p>Alasan: {{ .Reason }}</p>
<p>Silakan hubungi admin untuk informasi lebih lanjut.</p>`,
	)
)

func (m message) render(data any) (string, string, error) {
	buf := new(bytes.Buffer)
	if err := m.body.Execute(buf, data); err != nil {
		return "", "", err
	}
	return m.subject, buf.String(), nil
}
