package protocol

var (
	ftpGreetings = []string{"220 ", "220-"}
	ftpCommands  = []string{"USER", "PASS", "AUTH", "SYST", "FEAT", "QUIT", "PASV", "EPSV", "TYPE", "PWD"}
)

// probeFTP recognizes an FTP server greeting or a common client command.
func probeFTP(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 5 {
		return Incomplete, UnknownVersion
	}
	return probeCommandLine(data, ftpGreetings, ftpCommands, true)
}
