package commands

const (
	_etc = "/usr/local/etc/uhppoted"

	DEFAULT_CONFIG            = _etc + "/sheets-tool/uhppoted-sheets-tool.toml"
	DEFAULT_ENCRYPTED_API_KEY = _etc + "/sheets-tool/.google/api.key.enc"
	DEFAULT_CREDENTIALS       = _etc + "/sheets-tool/.google/credentials.json"

	browser = "xdg-open"
)
