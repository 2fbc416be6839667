package cli

import (
	"fmt"

	"github.com/jgoncalves802/visualplan/internal/validation"
)

type ValidateCmd struct {
	File string `short:"f" help:"Validate a JSON project file instead of the store." type:"path"`
}

func (c *ValidateCmd) Run(ctx *Context) error {
	project, _, err := loadProject(ctx, c.File)
	if err != nil {
		return err
	}

	result := validation.New().ValidateProject(project)
	fmt.Println(result.FormatReport())
	if result.HasConflicts() {
		return fmt.Errorf("%d conflicts found", len(result.Conflicts))
	}
	return nil
}
