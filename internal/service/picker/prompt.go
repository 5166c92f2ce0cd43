package picker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PromptChooser lists the models with numbers and reads a choice from a line
// reader. An empty line or end of input picks the first model.
type PromptChooser struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptChooser(in io.Reader, out io.Writer) *PromptChooser {
	return &PromptChooser{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (c *PromptChooser) Choose(ctx context.Context, models []string) (string, error) {
	if len(models) == 0 {
		return "", fmt.Errorf("no models to choose from")
	}

	fmt.Fprintln(c.out, "检测到多个可用模型，请选择：")
	for i, m := range models {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, m)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fmt.Fprint(c.out, "输入序号选择（默认 1）> ")
		line, err := c.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}

		sel := strings.TrimSpace(line)
		if sel == "" {
			return models[0], nil
		}
		if n, convErr := strconv.Atoi(sel); convErr == nil && n >= 1 && n <= len(models) {
			return models[n-1], nil
		}
		if err == io.EOF {
			return models[0], nil
		}

		fmt.Fprintln(c.out, "输入无效，请重试。")
	}
}
