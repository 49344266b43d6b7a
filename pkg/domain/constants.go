package domain

const (
	// SerialPortServiceUUID is the well-known Serial Port Profile rendezvous identifier.
	SerialPortServiceUUID = "00001101-0000-1000-8000-00805F9B34FB"

	// DefaultPeerName is the name substring used to pick the peer among known devices.
	DefaultPeerName = "raspberry"

	// WordSeparator delimits words in an encoded line.
	WordSeparator = " / "

	// LetterSeparator delimits letters inside a word.
	LetterSeparator = " "

	// LineTerminator ends every line written to the peer.
	LineTerminator = '\n'
)
