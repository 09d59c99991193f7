package delivery

import (
	"bytes"
	"fmt"
	htmltmpl "html/template"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

// EmailContent is a rendered email body shared by all email adapters.
type EmailContent struct {
	Subject string
	Text    string
	HTML    string
}

type messageData struct {
	AppName    string
	Name       string
	Courses    string
	Materials  []material.Resolved
	ExpiryText string
}

var emailHTMLTmpl = htmltmpl.Must(htmltmpl.New("email").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Your Study Materials</h2>
  <p>Dear {{.Name}},</p>
  <p>Here are your requested study materials for <strong>{{.Courses}}</strong>:</p>

  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    {{range .Materials}}
    <div style="margin-bottom: 15px; padding: 10px; border-left: 3px solid #007bff;">
      <strong>{{.Title}}</strong><br>
      <small>Course: {{.Course}} | Type: {{.Type}} | Size: {{.Size}}</small><br>
      {{if .DownloadURL}}<a href="{{.DownloadURL}}" style="color: #007bff; text-decoration: none;">Download</a>{{else}}<em>Download link unavailable</em>{{end}}
    </div>
    {{end}}
  </div>

  <div style="background-color: #fff3cd; padding: 15px; border-radius: 5px; border: 1px solid #ffeaa7;">
    <strong>Important:</strong> These download links will expire in {{.ExpiryText}} for security purposes.
  </div>

  <p style="margin-top: 30px;">
    Best regards,<br>
    <strong>{{.AppName}} Team</strong>
  </p>
</div>
`))

// ComposeEmail renders the plain-text and HTML bodies listing the involved
// courses (deduplicated) and every material with its download link, plus the
// fixed link-expiry notice.
func ComposeEmail(conf *core.Config, std student.Student, mats []material.Resolved) (EmailContent, error) {
	courses := CourseList(mats)
	expiry := expiryText(conf.LinkExpiry)

	var list strings.Builder
	for i, m := range mats {
		if i > 0 {
			list.WriteString("\n\n")
		}
		fmt.Fprintf(&list, "• %s (%s) - %s\n  Download: %s",
			m.Title, strings.ToUpper(m.Type), m.Course, urlOrUnavailable(m.DownloadURL))
	}

	text := fmt.Sprintf(`Dear %s,

Here are your requested study materials for %s:

%s

Important: These download links will expire in %s for security purposes.

Best regards,
%s Team`, std.Name, courses, list.String(), expiry, conf.AppName)

	var html bytes.Buffer
	data := messageData{
		AppName:    conf.AppName,
		Name:       std.Name,
		Courses:    courses,
		Materials:  upperTypes(mats),
		ExpiryText: expiry,
	}
	if err := emailHTMLTmpl.Execute(&html, data); err != nil {
		return EmailContent{}, errors.Wrap(err, "rendering email HTML")
	}

	return EmailContent{
		Subject: "Your requested study materials for " + courses,
		Text:    text,
		HTML:    html.String(),
	}, nil
}

// ComposeWhatsApp renders the chat message shared by all WhatsApp adapters.
func ComposeWhatsApp(conf *core.Config, std student.Student, mats []material.Resolved) string {
	courses := CourseList(mats)

	var list strings.Builder
	for i, m := range mats {
		if i > 0 {
			list.WriteString("\n\n")
		}
		fmt.Fprintf(&list, "📖 *%s*\n📝 Course: %s\n📋 Type: %s\n📁 Download: %s",
			m.Title, m.Course, strings.ToUpper(m.Type), urlOrUnavailable(m.DownloadURL))
	}

	return fmt.Sprintf(`🎓 *Your Study Materials*

Hi %s! 👋

Here are your requested materials for *%s*:

%s

⚠️ *Important:* Download links expire in %s for security.

📚 Happy studying!
- %s Team`, std.Name, courses, list.String(), expiryText(conf.LinkExpiry), conf.AppName)
}

// CourseList joins the materials' courses, deduplicated, keeping first-seen order.
func CourseList(mats []material.Resolved) string {
	seen := make(map[string]struct{}, len(mats))
	courses := make([]string, 0, len(mats))
	for _, m := range mats {
		if _, ok := seen[m.Course]; ok {
			continue
		}
		seen[m.Course] = struct{}{}
		courses = append(courses, m.Course)
	}
	return strings.Join(courses, ", ")
}

func expiryText(d time.Duration) string {
	mins := int(d.Minutes())
	if mins == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", mins)
}

func urlOrUnavailable(url string) string {
	if url == "" {
		return "(link unavailable)"
	}
	return url
}

func upperTypes(mats []material.Resolved) []material.Resolved {
	out := make([]material.Resolved, len(mats))
	copy(out, mats)
	for i := range out {
		out[i].Type = strings.ToUpper(out[i].Type)
	}
	return out
}
