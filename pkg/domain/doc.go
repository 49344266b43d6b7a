/*
Package domain contains the core value types shared by the morselink packages.

It defines the outcome of a transcription, the connection states of a link session,
the error taxonomy, and the stable message keys hosts use to pick user-facing text.
This package is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Result: The tagged outcome of translating one piece of text (Translated, Empty, Invalid...).
  - LinkState: The connection state of the single serial link (Disconnected, Connecting...).
  - LinkStatus: A snapshot of the link suitable for status displays.
  - LinkHooks: Callbacks for observing state transitions and sends.
*/
package domain
