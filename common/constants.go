package common

const (
	SrcFileExtension = ".cl"
	ConfigFileName   = "coolc.toml"
	CoolcVersion     = "0.1.0"
)
