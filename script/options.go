package script

import (
	"fmt"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/core"
	"github.com/jinzhu/copier"
	"github.com/mitchellh/mapstructure"
	lua "github.com/yuin/gopher-lua"
)

const (
	defaultArtifactsPath = "./target/dev"
	defaultBlockID       = "pending"
)

// Options are the keys recognised in an operation's options table. Unknown
// keys are ignored.
type Options struct {
	ArtifactsPath        string  `mapstructure:"artifacts_path"`
	ArtifactsRecursively bool    `mapstructure:"artifacts_recursively"`
	SkipIfDeclared       bool    `mapstructure:"skip_if_declared"`
	WatchInterval        *uint64 `mapstructure:"watch_interval"`
	Salt                 string  `mapstructure:"salt"`
	BlockID              string  `mapstructure:"block_id"`
	MaxFee               string  `mapstructure:"max_fee"`
	Unique               bool    `mapstructure:"unique"`
	SierraPath           string  `mapstructure:"sierra_path"`
	CasmPath             string  `mapstructure:"casm_path"`
}

func defaultOptions() Options {
	return Options{
		ArtifactsPath: defaultArtifactsPath,
		BlockID:       defaultBlockID,
	}
}

// decodeOptions decodes a Lua options table over the defaults. nil and an
// absent table give the defaults.
func decodeOptions(value lua.LValue) (*Options, error) {
	opts := defaultOptions()
	if value == lua.LNil {
		return &opts, nil
	}
	table, ok := value.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("options must be a table, got %s", value.Type())
	}

	var decoded Options
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &decoded,
	})
	if err != nil {
		return nil, err
	}
	if err = decoder.Decode(toGo(table)); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}

	if err = copier.CopyWithOption(&opts, &decoded, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	return &opts, nil
}

// watchInterval is zero when the caller did not ask to wait.
func (o *Options) watchInterval() time.Duration {
	if o.WatchInterval == nil {
		return 0
	}
	return time.Duration(*o.WatchInterval) * time.Millisecond
}

func (o *Options) salt() (*felt.Felt, error) {
	return optionalFelt("salt", o.Salt)
}

func (o *Options) maxFee() (*felt.Felt, error) {
	return optionalFelt("max_fee", o.MaxFee)
}

func (o *Options) blockID() (core.BlockID, error) {
	id, err := core.ParseBlockID(o.BlockID)
	if err != nil {
		return core.BlockID{}, fmt.Errorf("block_id: %w", err)
	}
	return id, nil
}

func optionalFelt(key, value string) (*felt.Felt, error) {
	if value == "" {
		return nil, nil
	}
	f, err := core.DecodeFelt(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
