package protocol

var (
	smtpGreetings = []string{"220 ", "220-", "MAIL FROM:", "RCPT TO:"}
	smtpCommands  = []string{"EHLO", "HELO", "DATA", "QUIT", "STARTTLS", "VRFY", "EXPN"}
)

// probeSMTP recognizes an SMTP server greeting or a common client command
// line.
func probeSMTP(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 5 {
		return Incomplete, UnknownVersion
	}
	return probeCommandLine(data, smtpGreetings, smtpCommands, true)
}
