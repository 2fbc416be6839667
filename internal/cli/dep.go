package cli

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jgoncalves802/visualplan/internal/models"
)

type DepAddCmd struct {
	From string `arg:"" help:"Predecessor activity id."`
	To   string `arg:"" help:"Successor activity id."`
	Type string `short:"t" help:"Dependency type (FS|SS|FF|SF)." default:"FS"`
	Lag  int    `short:"l" help:"Lag in working units (negative for lead)." default:"0"`
}

func (c *DepAddCmd) Validate() error {
	if !models.DependencyType(c.Type).Valid() {
		return fmt.Errorf("type must be FS, SS, FF, or SF")
	}
	if c.From == c.To {
		return fmt.Errorf("an activity cannot depend on itself")
	}
	return nil
}

func (c *DepAddCmd) Run(ctx *Context) error {
	if err := ctx.EnsureLoaded(); err != nil {
		return err
	}
	for _, id := range []string{c.From, c.To} {
		a, err := ctx.Store.GetActivity(id)
		if err != nil {
			return fmt.Errorf("activity %q not found", id)
		}
		if a.IsSummary() {
			return fmt.Errorf("summary activity %q cannot be a dependency endpoint", id)
		}
	}

	d := models.Dependency{
		ID:     uuid.NewString(),
		FromID: c.From,
		ToID:   c.To,
		Type:   models.DependencyType(c.Type),
		Lag:    c.Lag,
	}
	if err := ctx.Store.SaveDependency(d); err != nil {
		return err
	}

	fmt.Printf("Added %s dependency %s -> %s (lag %d)\n", d.Type, c.From, c.To, c.Lag)
	return nil
}

type DepListCmd struct{}

func (c *DepListCmd) Run(ctx *Context) error {
	if err := ctx.EnsureLoaded(); err != nil {
		return err
	}
	deps, err := ctx.Store.GetAllDependencies()
	if err != nil {
		return err
	}
	if len(deps) == 0 {
		fmt.Println("No dependencies.")
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-38s %-38s %-4s %4s", "FROM", "TO", "TYPE", "LAG")))
	for _, d := range deps {
		fmt.Printf("%-38s %-38s %-4s %4d\n", d.FromID, d.ToID, d.Type, d.Lag)
	}
	return nil
}

type DepDeleteCmd struct {
	ID string `arg:"" help:"Dependency id to delete."`
}

func (c *DepDeleteCmd) Run(ctx *Context) error {
	if err := ctx.EnsureLoaded(); err != nil {
		return err
	}
	if err := ctx.Store.DeleteDependency(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted dependency %s\n", c.ID)
	return nil
}
