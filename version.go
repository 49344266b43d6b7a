package morselink

// Version is the release of the morselink library and CLI.
const Version = "0.4.0"
