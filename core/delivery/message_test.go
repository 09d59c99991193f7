package delivery

import (
	"strings"
	"testing"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

func messageTestConf() *core.Config {
	conf := new(core.Config)
	conf.AppName = "Somo"
	conf.LinkExpiry = 10 * time.Minute
	return conf
}

func messageTestMats() []material.Resolved {
	return []material.Resolved{
		{
			Material: material.Material{
				ID: "M001", Course: "CS101", Title: "Introduction to Programming - Lecture Notes",
				Type: material.TypeDocument, Size: "2.4 MB",
			},
			DownloadURL: "http://localhost:8000/api/files/a?expires=1&sig=x",
		},
		{
			Material: material.Material{
				ID: "M003", Course: "MATH201", Title: "Linear Algebra Problem Set",
				Type: material.TypeDocument, Size: "1.2 MB",
			},
			DownloadURL: "http://localhost:8000/api/files/b?expires=1&sig=y",
		},
		{
			Material: material.Material{
				ID: "M002", Course: "CS101", Title: "Data Structures Overview",
				Type: material.TypeSlide, Size: "5.1 MB",
			},
			// no DownloadURL: issuance failed for this one
		},
	}
}

func assertTextEqual(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	t.Errorf("message body mismatch:\n%s", diff)
}

func TestComposeEmail(t *testing.T) {
	std := student.Student{ID: "S101", Name: "Aisha Mwangi"}
	content, err := ComposeEmail(messageTestConf(), std, messageTestMats())
	require.NoError(t, err)

	assert.Equal(t, "Your requested study materials for CS101, MATH201", content.Subject)

	wantText := `Dear Aisha Mwangi,

Here are your requested study materials for CS101, MATH201:

• Introduction to Programming - Lecture Notes (DOCUMENT) - CS101
  Download: http://localhost:8000/api/files/a?expires=1&sig=x

• Linear Algebra Problem Set (DOCUMENT) - MATH201
  Download: http://localhost:8000/api/files/b?expires=1&sig=y

• Data Structures Overview (SLIDE) - CS101
  Download: (link unavailable)

Important: These download links will expire in 10 minutes for security purposes.

Best regards,
Somo Team`
	assertTextEqual(t, wantText, content.Text)

	assert.Contains(t, content.HTML, "Dear Aisha Mwangi,")
	assert.Contains(t, content.HTML, "<strong>CS101, MATH201</strong>")
	assert.Contains(t, content.HTML, `href="http://localhost:8000/api/files/a?expires=1&amp;sig=x"`)
	assert.Contains(t, content.HTML, "<em>Download link unavailable</em>")
	assert.Contains(t, content.HTML, "expire in 10 minutes")
}

func TestComposeWhatsApp(t *testing.T) {
	std := student.Student{ID: "S101", Name: "Aisha Mwangi"}
	text := ComposeWhatsApp(messageTestConf(), std, messageTestMats())

	assert.True(t, strings.HasPrefix(text, "🎓 *Your Study Materials*"))
	assert.Contains(t, text, "Hi Aisha Mwangi! 👋")
	assert.Contains(t, text, "*CS101, MATH201*")
	assert.Contains(t, text, "📖 *Introduction to Programming - Lecture Notes*")
	assert.Contains(t, text, "📋 Type: SLIDE")
	assert.Contains(t, text, "📁 Download: (link unavailable)")
	assert.Contains(t, text, "Download links expire in 10 minutes")
	assert.Contains(t, text, "- Somo Team")
}

func TestCourseList_dedupKeepsFirstSeenOrder(t *testing.T) {
	mats := []material.Resolved{
		{Material: material.Material{Course: "MATH201"}},
		{Material: material.Material{Course: "CS101"}},
		{Material: material.Material{Course: "MATH201"}},
		{Material: material.Material{Course: "PHY110"}},
	}
	assert.Equal(t, "MATH201, CS101, PHY110", CourseList(mats))
}

func Test_expiryText(t *testing.T) {
	assert.Equal(t, "1 minute", expiryText(time.Minute))
	assert.Equal(t, "10 minutes", expiryText(10*time.Minute))
	assert.Equal(t, "60 minutes", expiryText(time.Hour))
}
