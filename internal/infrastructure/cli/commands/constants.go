package commands

const (
	defaultEditor = "vi"
	envKeyEditor  = "EDITOR"
)

// Error messages
const (
	ErrTextOrImageRequired = "provide an image path, --latest or --text"
	ErrNoCaptureFound      = "no capture found in the watch directories"
	ErrKeyRequired         = "--key is required"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgHistoryCleared           = "History cleared."
	MsgNoNotification           = "No notification shown."
	MsgCacheCleared             = "Cache cleared."
)
