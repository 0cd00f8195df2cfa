package filter

import (
	"fmt"
	"net/netip"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"firestige.xyz/overwatch/internal/core"
)

// LoadFile reads a YAML filter file.
//
// Example:
//
//	vlan: true
//	outer:
//	  ip_host: [10.0.0.5]
//	  port: [179]
//	inner:
//	  v6: true
//	  alp: [bgp]
func LoadFile(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read filter file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML filter document.
func Parse(data []byte) (Spec, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Spec{}, fmt.Errorf("parse filter: %v: %w", err, core.ErrBadFilter)
	}

	var spec Spec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToAddrHook,
			stringToCodeHook,
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &spec,
	})
	if err != nil {
		return Spec{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Spec{}, fmt.Errorf("decode filter: %v: %w", err, core.ErrBadFilter)
	}
	return spec, nil
}

var (
	addrType      = reflect.TypeOf(netip.Addr{})
	ethertypeType = reflect.TypeOf(core.Ethertype(0))
	ipProtoType   = reflect.TypeOf(core.IPProto(0))
	alpType       = reflect.TypeOf(core.Alp(0))
)

func stringToAddrHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != addrType {
		return data, nil
	}
	return netip.ParseAddr(data.(string))
}

// stringToCodeHook accepts protocol names where a code is expected.
func stringToCodeHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	s := data.(string)
	switch to {
	case ethertypeType:
		return core.ParseEthertype(s)
	case ipProtoType:
		return core.ParseIPProto(s)
	case alpType:
		return core.ParseAlp(s)
	}
	return data, nil
}
