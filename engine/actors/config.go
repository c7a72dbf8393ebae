package actors

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"nostrtrust/engine/library"
	"nostrtrust/libraries/delegation"
	"nostrtrust/libraries/keys"
	"nostrtrust/libraries/profile"
)

// InitConfig sets up our Viper config object
func InitConfig(config *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	config.SetDefault("rootDir", filepath.Join(homeDir, "nostrtrust")+"/")
	config.SetConfigType("yaml")
	config.SetConfigFile(configFile(config))
	err = config.ReadInConfig()
	if err != nil {
		library.LogCLI(err.Error(), 4)
	}
	config.SetDefault("logLevel", 4)
	config.SetDefault("doNotPublish", false)
	config.SetDefault("publishTimeoutSeconds", 10)
	config.SetDefault("relays", []string{"wss://nostr.688.org"})
	// unknown condition parts are skipped by every other implementation, turning this off rejects them
	config.SetDefault("ignoreUnknownConditions", true)
	config.SetDefault("strictProfileTrailing", false)
	library.SetLogLevel(config.GetInt("logLevel"))
	// Create our working directory and config file if not exist
	initRootDir(config)
	touch(configFile(config))
	err = config.WriteConfig()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
}

func configFile(conf *viper.Viper) string {
	return filepath.Join(conf.GetString("rootDir"), "config.yaml")
}

func initRootDir(conf *viper.Viper) {
	_, err := os.Stat(conf.GetString("rootDir"))
	if os.IsNotExist(err) {
		err = os.MkdirAll(conf.GetString("rootDir"), 0755)
		if err != nil {
			library.LogCLI(err, 0)
		}
	}
}

func touch(name string) {
	f, err := os.OpenFile(name, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		library.LogCLI(err, 0)
		return
	}
	f.Close()
}

var conf *viper.Viper

func MakeOrGetConfig() *viper.Viper {
	return conf
}

func SetConfig(config *viper.Viper) {
	conf = config
}

// DelegationParser returns a conditions parser honouring ignoreUnknownConditions.
func DelegationParser(config *viper.Viper) delegation.Parser {
	return delegation.Parser{IgnoreUnknown: config.GetBool("ignoreUnknownConditions")}
}

// ProfileCodec returns a profile codec honouring strictProfileTrailing.
func ProfileCodec(config *viper.Viper) profile.Codec {
	return profile.Codec{
		Backend:        keys.Default,
		RejectTrailing: config.GetBool("strictProfileTrailing"),
	}
}
