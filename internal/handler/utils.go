package handler

// orUnknown substitutes "unknown" for an empty field value.
func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// TruncateMessage cuts a message down to maxLen bytes. The cut is a plain
// byte cut with no partial-word handling and no ellipsis; the gateway counts
// bytes, not words.
func TruncateMessage(msg string, maxLen int) string {
	if len(msg) <= maxLen {
		return msg
	}
	return msg[:maxLen]
}
