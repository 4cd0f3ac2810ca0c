package output

import (
	"encoding/base64"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"gxt-go/packages/compiler/src/util"
)

const (
	// Version is the source map version
	Version     = 3
	jsB64Prefix = "# sourceMappingURL=data:application/json;base64,"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Segment is one mapping of a generated line
type Segment struct {
	Col0        int
	SourceURL   *string
	SourceLine0 *int
	SourceCol0  *int
	Name        *string
}

// SourceMap is the version 3 source map document
type SourceMap struct {
	Version        int       `json:"version"`
	File           string    `json:"file"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// Marshal encodes the source map as JSON
func (m *SourceMap) Marshal() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("source map: %w", err)
	}
	return data, nil
}

// ToJsComment renders the map as an inline `//# sourceMappingURL=` comment
func (m *SourceMap) ToJsComment() (string, error) {
	data, err := m.Marshal()
	if err != nil {
		return "", err
	}
	return "//" + jsB64Prefix + base64.StdEncoding.EncodeToString(data), nil
}

// ParseSourceMap decodes a JSON source map
func ParseSourceMap(data []byte) (*SourceMap, error) {
	m := &SourceMap{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("source map: %w", err)
	}
	return m, nil
}

// SourceMapGenerator generates source maps
type SourceMapGenerator struct {
	sources        []string
	sourcesContent map[string]*string
	names          []string
	nameIndex      map[string]int
	lines          [][]Segment
	lastCol0       int
	file           string
}

// NewSourceMapGenerator creates a new SourceMapGenerator
func NewSourceMapGenerator(file string) *SourceMapGenerator {
	return &SourceMapGenerator{
		sourcesContent: map[string]*string{},
		nameIndex:      map[string]int{},
		file:           file,
	}
}

// AddSource adds a source file to the source map.
// The content is nil when it is expected to be loaded using the URL.
func (smg *SourceMapGenerator) AddSource(url string, content *string) *SourceMapGenerator {
	if _, exists := smg.sourcesContent[url]; !exists {
		smg.sources = append(smg.sources, url)
		smg.sourcesContent[url] = content
	}
	return smg
}

// AddLine adds a new line to the source map
func (smg *SourceMapGenerator) AddLine() *SourceMapGenerator {
	smg.lines = append(smg.lines, []Segment{})
	smg.lastCol0 = 0
	return smg
}

// AddMapping adds a mapping to the current line
func (smg *SourceMapGenerator) AddMapping(col0 int, sourceURL *string, sourceLine0, sourceCol0 *int, name *string) error {
	if len(smg.lines) == 0 {
		return fmt.Errorf("a line must be added before mappings can be added")
	}
	if sourceURL != nil {
		if _, exists := smg.sourcesContent[*sourceURL]; !exists {
			return fmt.Errorf("unknown source file %q", *sourceURL)
		}
	}
	if col0 < smg.lastCol0 {
		return fmt.Errorf("mapping should be added in output order")
	}
	if sourceURL != nil && (sourceLine0 == nil || sourceCol0 == nil) {
		return fmt.Errorf("the source location must be provided when a source url is provided")
	}
	if name != nil && sourceURL == nil {
		return fmt.Errorf("a name requires a source location")
	}
	if name != nil {
		if _, seen := smg.nameIndex[*name]; !seen {
			smg.nameIndex[*name] = len(smg.names)
			smg.names = append(smg.names, *name)
		}
	}

	smg.lastCol0 = col0
	line := &smg.lines[len(smg.lines)-1]
	*line = append(*line, Segment{
		Col0:        col0,
		SourceURL:   sourceURL,
		SourceLine0: sourceLine0,
		SourceCol0:  sourceCol0,
		Name:        name,
	})
	return nil
}

// ToJSON builds the source map document
func (smg *SourceMapGenerator) ToJSON() *SourceMap {
	sourcesIndex := make(map[string]int, len(smg.sources))
	sourcesContent := make([]*string, 0, len(smg.sources))
	for i, url := range smg.sources {
		sourcesIndex[url] = i
		sourcesContent = append(sourcesContent, smg.sourcesContent[url])
	}

	lastSourceIndex := 0
	lastSourceLine0 := 0
	lastSourceCol0 := 0
	lastNameIndex := 0

	var sb strings.Builder
	for i, segments := range smg.lines {
		if i > 0 {
			sb.WriteByte(';')
		}
		lastCol0 := 0
		for j, segment := range segments {
			if j > 0 {
				sb.WriteByte(',')
			}
			// zero-based starting column of the line in the generated code
			sb.WriteString(toBase64VLQ(segment.Col0 - lastCol0))
			lastCol0 = segment.Col0

			if segment.SourceURL == nil {
				continue
			}
			// zero-based index into the "sources" list
			sourceIndex := sourcesIndex[*segment.SourceURL]
			sb.WriteString(toBase64VLQ(sourceIndex - lastSourceIndex))
			lastSourceIndex = sourceIndex
			// the zero-based starting line in the original source
			sb.WriteString(toBase64VLQ(*segment.SourceLine0 - lastSourceLine0))
			lastSourceLine0 = *segment.SourceLine0
			// the zero-based starting column in the original source
			sb.WriteString(toBase64VLQ(*segment.SourceCol0 - lastSourceCol0))
			lastSourceCol0 = *segment.SourceCol0

			if segment.Name != nil {
				nameIndex := smg.nameIndex[*segment.Name]
				sb.WriteString(toBase64VLQ(nameIndex - lastNameIndex))
				lastNameIndex = nameIndex
			}
		}
	}

	sources := smg.sources
	if sources == nil {
		sources = []string{}
	}
	names := smg.names
	if names == nil {
		names = []string{}
	}
	return &SourceMap{
		Version:        Version,
		File:           smg.file,
		Sources:        sources,
		SourcesContent: sourcesContent,
		Names:          names,
		Mappings:       sb.String(),
	}
}

// Mapping is one generated position traced back to the template
type Mapping struct {
	GeneratedLine   int
	GeneratedColumn int
	SourceLine      int
	SourceColumn    int
	Name            string
}

// CollectMappings flattens a mapping tree into source map segments. Nodes
// without a source range or generated text are skipped; when several nodes
// start at the same generated position the innermost one wins. Columns are
// UTF-16 code units.
func CollectMappings(tree *MappingTreeNode, code string) []Mapping {
	index := util.NewLineIndex(code)
	var out []Mapping
	lastStart := -1
	tree.Walk(func(node *MappingTreeNode, _ int) bool {
		if !node.HasSource() || node.Generated.Len() <= 0 {
			return true
		}
		line, col := index.Position(node.Generated.Start)
		m := Mapping{
			GeneratedLine:   line,
			GeneratedColumn: col,
			SourceLine:      node.SourceSpan.Start.Line,
			SourceColumn:    node.SourceSpan.Start.Col,
			Name:            node.Name,
		}
		if node.Generated.Start == lastStart && len(out) > 0 {
			if m.Name == "" {
				m.Name = out[len(out)-1].Name
			}
			out[len(out)-1] = m
		} else {
			out = append(out, m)
		}
		lastStart = node.Generated.Start
		return true
	})
	return out
}

// GenerateSourceMap builds a source map for code from its mapping tree.
// sourceName is listed in `sources`, content in `sourcesContent`.
func GenerateSourceMap(tree *MappingTreeNode, code, file, sourceName, content string) (*SourceMap, error) {
	gen := NewSourceMapGenerator(file)
	gen.AddSource(sourceName, &content)

	mappings := CollectMappings(tree, code)
	lineCount := util.NewLineIndex(code).LineCount()
	next := 0
	for line := 0; line < lineCount; line++ {
		gen.AddLine()
		for next < len(mappings) && mappings[next].GeneratedLine == line {
			m := mappings[next]
			srcLine, srcCol := m.SourceLine, m.SourceColumn
			var name *string
			if m.Name != "" {
				n := m.Name
				name = &n
			}
			if err := gen.AddMapping(m.GeneratedColumn, &sourceName, &srcLine, &srcCol, name); err != nil {
				return nil, err
			}
			next++
		}
	}
	return gen.ToJSON(), nil
}

// DecodedSegment is one decoded `mappings` entry. SourceIndex and NameIndex
// are -1 when the segment does not carry them.
type DecodedSegment struct {
	GeneratedLine   int
	GeneratedColumn int
	SourceIndex     int
	SourceLine      int
	SourceColumn    int
	NameIndex       int
}

// DecodeMappings decodes a VLQ `mappings` string
func DecodeMappings(mappings string) ([]DecodedSegment, error) {
	var out []DecodedSegment
	sourceIndex, sourceLine, sourceCol, nameIndex := 0, 0, 0, 0
	for lineNo, line := range strings.Split(mappings, ";") {
		col := 0
		if line == "" {
			continue
		}
		for _, raw := range strings.Split(line, ",") {
			fields, err := fromBase64VLQ(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			seg := DecodedSegment{GeneratedLine: lineNo, SourceIndex: -1, NameIndex: -1}
			switch len(fields) {
			case 1, 4, 5:
			default:
				return nil, fmt.Errorf("line %d: segment %q has %d fields", lineNo, raw, len(fields))
			}
			col += fields[0]
			seg.GeneratedColumn = col
			if len(fields) >= 4 {
				sourceIndex += fields[1]
				sourceLine += fields[2]
				sourceCol += fields[3]
				seg.SourceIndex, seg.SourceLine, seg.SourceColumn = sourceIndex, sourceLine, sourceCol
			}
			if len(fields) == 5 {
				nameIndex += fields[4]
				seg.NameIndex = nameIndex
			}
			out = append(out, seg)
		}
	}
	return out, nil
}

// toBase64VLQ converts a number to base64 VLQ encoding
func toBase64VLQ(value int) string {
	if value < 0 {
		value = (-value << 1) + 1
	} else {
		value = value << 1
	}

	out := ""
	for {
		digit := value & 31
		value = value >> 5
		if value > 0 {
			digit = digit | 32
		}
		out += string(toBase64Digit(digit))
		if value == 0 {
			break
		}
	}

	return out
}

func fromBase64VLQ(segment string) ([]int, error) {
	var out []int
	value, shift := 0, 0
	for i := 0; i < len(segment); i++ {
		digit := strings.IndexByte(b64Digits, segment[i])
		if digit < 0 {
			return nil, fmt.Errorf("invalid base64 digit %q", segment[i])
		}
		value += (digit & 31) << shift
		if digit&32 != 0 {
			shift += 5
			continue
		}
		if value&1 == 1 {
			out = append(out, -(value >> 1))
		} else {
			out = append(out, value>>1)
		}
		value, shift = 0, 0
	}
	if shift != 0 {
		return nil, fmt.Errorf("unterminated VLQ value in %q", segment)
	}
	return out, nil
}

const b64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// toBase64Digit converts a value to a base64 digit
func toBase64Digit(value int) byte {
	if value < 0 || value >= 64 {
		panic(fmt.Sprintf("can only encode value in the range [0, 63], got %d", value))
	}
	return b64Digits[value]
}
