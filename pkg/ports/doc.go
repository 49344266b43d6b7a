/*
Package ports defines the driven ports (interfaces) the link session depends on.

These interfaces decouple the session state machine from the host environment, so the
same session drives a Bluetooth serial socket, a TCP serial bridge, a bound RFCOMM device
or an in-memory fake.

# Key Interfaces

  - Transport: Enumerates known peers and opens byte-stream connections to them.
  - Conn / Writer: A live connection and its write side.
  - PermissionGate: Reports which host capabilities have been granted.
  - PeerLocker: Optional cross-process exclusion so one peer is driven by one session.
*/
package ports
