/*
Copyright 2021 by Milo Christiansen

This software is provided 'as-is', without any express or implied warranty. In
no event will the authors be held liable for any damages arising from the use of
this software.

Permission is granted to anyone to use this software for any purpose, including
commercial applications, and to alter it and redistribute it freely, subject to
the following restrictions:

1. The origin of this software must not be misrepresented; you must not claim
that you wrote the original software. If you use this software in a product, an
acknowledgment in the product documentation would be appreciated but is not
required.

2. Altered source versions must be plainly marked as such, and must not be
misrepresented as being the original software.

3. This notice may not be removed or altered from any source distribution.
*/

package main

import (
	"fmt"

	"github.com/milochristiansen/ledgerfmt/config"
	"github.com/milochristiansen/ledgerfmt/expr"
	"github.com/milochristiansen/ledgerfmt/format"
	"github.com/milochristiansen/ledgerfmt/tools"
)

// renderer builds the renderer for a report run, with the flags applied over the settings.
func (a *app) renderer(rf *tools.ReportFlags) (*format.Renderer, config.Settings, error) {
	s := rf.Apply(a.settings)
	cfg, err := s.FormatConfig()
	if err != nil {
		return nil, s, err
	}
	return format.NewRenderer(cfg), s, nil
}

// formats parses the first line format, and the continuation format if there is one.
func formats(first, next string) (*format.Format, *format.Format, error) {
	ff, err := format.Parse(first)
	if err != nil {
		return nil, nil, fmt.Errorf("format %q: %w", first, err)
	}
	if next == "" {
		return ff, nil, nil
	}
	nf, err := format.Parse(next)
	if err != nil {
		return nil, nil, fmt.Errorf("format %q: %w", next, err)
	}
	return ff, nf, nil
}

// predicate compiles the -d flag, falling back to def. With -empty the fallback matches everything.
func predicate(rf *tools.ReportFlags, def string) (*expr.Predicate, error) {
	src := rf.Display
	if src == "" && !rf.Empty {
		src = def
	}
	return expr.CompilePredicate(src)
}
