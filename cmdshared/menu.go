package cmdshared

import (
	"errors"

	"github.com/packwiz/texwiz/core"
	"gopkg.in/dixonwille/wmenu.v4"
)

// ChooseCategory shows a numbered menu of the layout's categories and returns the
// selection. The first category is the default.
func ChooseCategory(layout core.Layout, question string) (core.Category, error) {
	var chosen core.Category
	menu := wmenu.NewMenu(question)
	menu.Action(func(opts []wmenu.Opt) error {
		if len(opts) != 1 {
			return errors.New("select exactly one category")
		}
		cat, ok := opts[0].Value.(core.Category)
		if !ok {
			return errors.New("invalid category")
		}
		chosen = cat
		return nil
	})
	for i, cat := range layout.Categories {
		menu.Option(core.DisplayName(string(cat)), cat, i == 0, nil)
	}
	if err := menu.Run(); err != nil {
		return "", err
	}
	return chosen, nil
}
