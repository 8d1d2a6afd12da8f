package defs

// Common labels for structured logging fields, kept consistent across packages
const (
	LabelComponent = "component"
	LabelName      = "name"
	LabelPart      = "part"

	LabelLocal  = "local"
	LabelRemote = "remote"

	LabelProtocol = "protocol"
	LabelClientID = "clientID"
)
