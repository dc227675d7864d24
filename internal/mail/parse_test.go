package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		raw     string
		subject string
		from    string
		content string
	}{
		{
			desc: "it should decode encoded-word subjects",
			raw: "From: a@example.com\r\n" +
				"Subject: =?UTF-8?B?5ZGo5oql?=\r\n" +
				"\r\n" +
				"hi\r\n",
			subject: "周报",
			from:    "<a@example.com>",
			content: "hi",
		},
		{
			desc: "it should decode gbk subjects",
			raw: "From: a@example.com\r\n" +
				"Subject: =?gbk?B?1tyxqA==?=\r\n" +
				"\r\n" +
				"hi\r\n",
			subject: "周报",
			from:    "<a@example.com>",
			content: "hi",
		},
		{
			desc: "it should fall back on defaults",
			raw: "Content-Type: text/plain\r\n" +
				"\r\n" +
				"  lots   of\r\n\r\n space \r\n",
			subject: noSubject,
			from:    unknownSender,
			content: "lots of space",
		},
		{
			desc: "it should prefer the plain part",
			raw: "From: a@example.com\r\n" +
				"Subject: alt\r\n" +
				"Content-Type: multipart/alternative; boundary=XX\r\n" +
				"\r\n" +
				"--XX\r\n" +
				"Content-Type: text/html; charset=utf-8\r\n" +
				"\r\n" +
				"<p>html version</p>\r\n" +
				"--XX\r\n" +
				"Content-Type: text/plain; charset=utf-8\r\n" +
				"\r\n" +
				"plain version\r\n" +
				"--XX--\r\n",
			subject: "alt",
			from:    "<a@example.com>",
			content: "plain version",
		},
		{
			desc: "it should convert html when there is no plain part",
			raw: "From: a@example.com\r\n" +
				"Subject: html\r\n" +
				"Content-Type: multipart/mixed; boundary=XX\r\n" +
				"\r\n" +
				"--XX\r\n" +
				"Content-Type: text/html; charset=utf-8\r\n" +
				"\r\n" +
				"<h1>Title</h1><p>see <a href=\"https://x\">link</a></p>\r\n" +
				"--XX--\r\n",
			subject: "html",
			from:    "<a@example.com>",
			content: "Title see link",
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			got := Summarize(strings.NewReader(tc.raw))
			require.NoError(t, got.Err)
			assert.Equal(t, tc.subject, got.Subject)
			assert.Equal(t, tc.from, got.From)
			assert.Equal(t, tc.content, got.Content)
		})
	}
}

func TestSummarize_Truncates(t *testing.T) {
	raw := "From: a@example.com\r\nSubject: long\r\n\r\n" + strings.Repeat("长", 300) + "\r\n"
	got := Summarize(strings.NewReader(raw))
	require.NoError(t, got.Err)
	assert.Equal(t, strings.Repeat("长", SummaryRuneLimit)+"...", got.Content)
}

func TestFormatDigest(t *testing.T) {
	got := FormatDigest("QQ", []Summary{
		{From: "a", Subject: "s", Content: "c"},
		{Err: assert.AnError},
	})
	sep := strings.Repeat("-", 50)
	top := strings.Repeat("=", 50)
	want := "latest 2 emails from the QQ account:\n" + top + "\n" +
		"\nfrom: a\nsubject: s\nsummary: c\n" + sep +
		"\nerror while processing email: " + assert.AnError.Error() + "\n" + sep +
		"\n" + top + "\nend of email digest."
	assert.Equal(t, want, got)
}
