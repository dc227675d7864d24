package mail

import (
	"fmt"
	"strings"
)

const separatorWidth = 50

// FormatDigest renders the summaries read from service.
func FormatDigest(service string, summaries []Summary) string {
	if len(summaries) == 0 {
		return "no emails found in inbox"
	}
	sep := strings.Repeat("-", separatorWidth)
	top := strings.Repeat("=", separatorWidth)
	var sb strings.Builder
	fmt.Fprintf(&sb, "latest %v emails from the %v account:\n%v\n", len(summaries), service, top)
	for _, s := range summaries {
		if s.Err != nil {
			fmt.Fprintf(&sb, "\nerror while processing email: %v\n%v", s.Err, sep)
			continue
		}
		fmt.Fprintf(&sb, "\nfrom: %v\nsubject: %v\nsummary: %v\n%v", s.From, s.Subject, s.Content, sep)
	}
	fmt.Fprintf(&sb, "\n%v\nend of email digest.", top)
	return sb.String()
}
