package memory

import (
	"fmt"
	"os"
	"strings"

	"github.com/sandevgo/dazi/internal/core"
)

const (
	archiveHeader = "【档案/记忆】"
	historyHeader = "【最近对话摘要】"
	emptySection  = "暂无"

	userLabel    = "用户："
	partnerLabel = "搭子："
	noteLabel    = "记录："
)

// SysPrompt builds the system prompt for each turn from the persona and the memory record.
type SysPrompt struct {
	persona    string
	maxHistory int
}

func NewSysPrompt(persona string, maxHistory int) *SysPrompt {
	return &SysPrompt{
		persona:    persona,
		maxHistory: maxHistory,
	}
}

// LoadPersona reads the persona file once at startup.
func LoadPersona(cfg core.PromptConfig) (string, error) {
	path := cfg.GetPromptPath()
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read persona prompt %s: %v", core.ErrConfiguration, path, err)
	}
	return strings.TrimSpace(string(content)), nil
}

func (p *SysPrompt) Build(rec core.Record) string {
	return Assemble(p.persona, rec, p.maxHistory)
}

// Assemble renders persona, archive and the most recent turns as one system prompt.
func Assemble(persona string, rec core.Record, maxHistory int) string {
	archive := strings.TrimSpace(rec.Archive)
	if archive == "" {
		archive = emptySection
	}

	history := renderHistory(recent(rec.History, maxHistory))
	if history == "" {
		history = emptySection
	}

	return strings.Join([]string{
		persona,
		archiveHeader,
		archive,
		historyHeader,
		history,
	}, "\n\n")
}

func recent(turns []core.Turn, n int) []core.Turn {
	if n <= 0 {
		return nil
	}
	if len(turns) > n {
		return turns[len(turns)-n:]
	}
	return turns
}

func renderHistory(turns []core.Turn) string {
	blocks := make([]string, 0, len(turns))
	for _, t := range turns {
		var b strings.Builder
		b.WriteString(userLabel)
		b.WriteString(t.User)
		b.WriteByte('\n')
		b.WriteString(partnerLabel)
		b.WriteString(t.AssistantVisible)
		b.WriteByte('\n')
		b.WriteString(noteLabel)
		b.WriteString(t.AssistantMemory)
		blocks = append(blocks, strings.TrimSpace(b.String()))
	}
	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}
