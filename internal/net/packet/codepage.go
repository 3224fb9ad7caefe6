package packet

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/traditionalchinese"
)

// LookupCodePage maps a configured code page name to its encoding.
// "ascii" (or "") returns nil, which Reader and Writer treat as raw bytes.
func LookupCodePage(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "ascii":
		return nil, nil
	case "cp1252", "windows-1252":
		return charmap.Windows1252, nil
	case "euc-kr", "cp949":
		return korean.EUCKR, nil
	case "big5", "ms950":
		return traditionalchinese.Big5, nil
	default:
		return nil, fmt.Errorf("unknown code page %q", name)
	}
}
