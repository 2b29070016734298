package config

// --------------------------------------------------------------------------
//
//	Gurux Ltd
//
// Filename:        $HeadURL$
//
// Version:         $Revision$,
//
//	$Date$
//	$Author$
//
// # Copyright (c) Gurux Ltd
//
// ---------------------------------------------------------------------------
//
//	DESCRIPTION
//
// This file is a part of Gurux Device Framework.
//
// Gurux Device Framework is Open Source software; you can redistribute it
// and/or modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2 of the License.
// Gurux Device Framework is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU General Public License for more details.
//
// More information of Gurux products: https://www.gurux.org
//
// This code is licensed under the GNU General Public License v2.
// Full text may be retrieved at http://www.gnu.org/licenses/gpl-2.0.txt
// ---------------------------------------------------------------------------

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/Gurux/gxuwb-go/logging"
	"github.com/Gurux/gxuwb-go/status"
	"github.com/rs/zerolog"
)

// DefaultVendorPath is the main vendor configuration file.
const DefaultVendorPath = "/vendor/etc/libuwb-nxp.conf"

// CountrySpecifier is replaced by the country code in extra file paths.
const CountrySpecifier = "<country>"

// maxExtraConf is the highest EXTRA_CONF_PATH_N index read.
const maxExtraConf = 10

// ErrNoParams is returned for a vendor file without any parameter.
var ErrNoParams = errors.New("vendor config has no parameters")

// ParamType tells which value of a Param is set.
type ParamType int

const (
	ParamNumber ParamType = iota
	ParamString
	ParamByteArray
)

// String returns the name of the parameter type.
func (t ParamType) String() string {
	switch t {
	case ParamNumber:
		return "Number"
	case ParamString:
		return "String"
	case ParamByteArray:
		return "ByteArray"
	default:
		return fmt.Sprintf("ParamType(%d)", int(t))
	}
}

// Param is one vendor configuration value.
type Param struct {
	Type  ParamType
	Num   uint64
	Str   string
	Bytes []byte
}

// String formats the value the way the vendor dump does.
func (p Param) String() string {
	switch p.Type {
	case ParamString:
		return p.Str
	case ParamByteArray:
		var b strings.Builder
		b.WriteString("{ ")
		for _, v := range p.Bytes {
			fmt.Fprintf(&b, "%02x ", v)
		}
		b.WriteString("}")
		return b.String()
	default:
		return fmt.Sprintf("0x%x", p.Num)
	}
}

func isKeyChar(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) ||
		strings.ContainsRune("/_-.,", r))
}

// ParseVendor reads KEY=value lines. Values are "quoted strings", decimal
// or 0x hex numbers, or {aa:bb,cc} hex byte arrays. Text after # outside a
// string is a comment. The first definition of a key wins and lines that
// do not parse are skipped.
func ParseVendor(r io.Reader) (map[string]Param, error) {
	ret := make(map[string]Param)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, p, ok := parseVendorLine(sc.Text())
		if !ok {
			continue
		}
		if _, exists := ret[key]; !exists {
			ret[key] = p
		}
	}
	return ret, sc.Err()
}

func parseVendorLine(line string) (string, Param, bool) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", Param{}, false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.IndexFunc(key, func(r rune) bool { return !isKeyChar(r) }) >= 0 {
		return "", Param{}, false
	}
	value = strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(value, `"`):
		end := strings.IndexByte(value[1:], '"')
		if end < 0 {
			return "", Param{}, false
		}
		return key, Param{Type: ParamString, Str: value[1 : end+1]}, true
	case strings.HasPrefix(value, "{"):
		b, ok := parseByteArray(stripComment(value[1:]))
		if !ok {
			return "", Param{}, false
		}
		return key, Param{Type: ParamByteArray, Bytes: b}, true
	default:
		n, ok := parseNumber(stripComment(value))
		if !ok {
			return "", Param{}, false
		}
		return key, Param{Type: ParamNumber, Num: n}, true
	}
}

func stripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}
	return s
}

func parseNumber(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return 0, false
	}
	if h, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		n, err := strconv.ParseUint(h, 16, 64)
		return n, err == nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	return n, err == nil
}

func parseByteArray(s string) ([]byte, bool) {
	body, _, closed := strings.Cut(s, "}")
	if !closed {
		return nil, false
	}
	fields := strings.FieldsFunc(body, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ':' || r == '-'
	})
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		if len(f)%2 == 1 {
			f = "0" + f
		}
		v, err := hex.DecodeString(f)
		if err != nil {
			return nil, false
		}
		// Wider groups keep the low byte.
		out = append(out, v[len(v)-1])
	}
	return out, true
}

// VendorFile is one file of the cascade. A path containing
// CountrySpecifier is only read once a country code is set.
type VendorFile struct {
	template string
	current  string
	params   map[string]Param
}

// ReadVendorFile parses path. A file without parameters is an error.
func ReadVendorFile(path string) (*VendorFile, error) {
	f := &VendorFile{template: path}
	if strings.Contains(path, CountrySpecifier) {
		return f, nil
	}
	return f, f.read(path)
}

func (f *VendorFile) read(path string) error {
	f.current = path
	f.params = nil
	fd, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("vendor config %s: %w", path, err)
	}
	defer fd.Close()
	params, err := ParseVendor(fd)
	if err != nil {
		return fmt.Errorf("vendor config %s: %w", path, err)
	}
	if len(params) == 0 {
		return fmt.Errorf("vendor config %s: %w", path, ErrNoParams)
	}
	f.params = params
	return nil
}

// CountrySpecific reports whether the path depends on the country code.
func (f *VendorFile) CountrySpecific() bool {
	return strings.Contains(f.template, CountrySpecifier)
}

// Path returns the file currently loaded, or the template.
func (f *VendorFile) Path() string {
	if f.current != "" {
		return f.current
	}
	return f.template
}

// Find returns the parameter called name.
func (f *VendorFile) Find(name string) (Param, bool) {
	p, ok := f.params[name]
	return p, ok
}

// Len returns the number of parameters.
func (f *VendorFile) Len() int {
	return len(f.params)
}

func (f *VendorFile) setCountry(cc string) error {
	if !f.CountrySpecific() {
		return nil
	}
	return f.read(strings.Replace(f.template, CountrySpecifier, cc, 1))
}

// Vendor is the cascade of the main file and its EXTRA_CONF_PATH_N files.
// Lookups search the extra files from the highest index down and then the
// main file.
type Vendor struct {
	mu    sync.RWMutex
	main  *VendorFile
	extra []*VendorFile
	log   zerolog.Logger
}

// LoadVendor reads the main file and every extra file it names. Extra files
// that cannot be read are logged and left empty.
func LoadVendor(mainPath string) (*Vendor, error) {
	v := &Vendor{log: logging.Logger("config")}
	main, err := ReadVendorFile(mainPath)
	if err != nil {
		return nil, err
	}
	v.main = main
	for i := 1; i <= maxExtraConf; i++ {
		key := fmt.Sprintf("EXTRA_CONF_PATH_%d", i)
		p, ok := main.Find(key)
		if !ok || p.Type != ParamString {
			continue
		}
		f, err := ReadVendorFile(p.Str)
		if err != nil {
			v.log.Warn().Err(err).Str("key", key).Msg("extra vendor config not loaded")
		}
		v.extra = append(v.extra, f)
	}
	v.log.Debug().Str("path", mainPath).Int("entries", main.Len()).Int("extra", len(v.extra)).Msg("vendor config loaded")
	return v, nil
}

// IsValidCountryCode reports whether cc is two ASCII letters or digits
// other than "00".
func IsValidCountryCode(cc string) bool {
	if len(cc) != 2 || cc == "00" {
		return false
	}
	for _, c := range []byte(cc) {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// SetCountryCode reloads the country specific extra files for cc.
// Files missing for that country are logged and stay empty.
func (v *Vendor) SetCountryCode(cc string) error {
	if !IsValidCountryCode(cc) {
		return fmt.Errorf("country code %q: %w", cc, status.ErrInvalidParameter)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.log.Debug().Str("country", cc).Msg("apply country code")
	for _, f := range v.extra {
		if err := f.setCountry(cc); err != nil {
			v.log.Warn().Err(err).Msg("country vendor config not loaded")
		}
	}
	return nil
}

// Find returns the parameter called name from the cascade.
func (v *Vendor) Find(name string) (Param, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for i := len(v.extra) - 1; i >= 0; i-- {
		if p, ok := v.extra[i].Find(name); ok {
			return p, true
		}
	}
	return v.main.Find(name)
}

// GetStr returns a string parameter.
func (v *Vendor) GetStr(name string) (string, bool) {
	p, ok := v.Find(name)
	if !ok || p.Type != ParamString {
		return "", false
	}
	return p.Str, true
}

// GetNum returns a number parameter.
func (v *Vendor) GetNum(name string) (uint64, bool) {
	p, ok := v.Find(name)
	if !ok || p.Type != ParamNumber {
		return 0, false
	}
	return p.Num, true
}

// GetByteArray returns a copy of a byte array parameter.
func (v *Vendor) GetByteArray(name string) ([]byte, bool) {
	p, ok := v.Find(name)
	if !ok || p.Type != ParamByteArray {
		return nil, false
	}
	return append([]byte(nil), p.Bytes...), true
}
