// seehuhn.de/go/colouring - a boundary-constrained colouring canvas
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command colouring-demo plays a scripted colouring session.
//
// The command paints a shape with a fixed sequence of strokes, submits the
// attempt, and writes the result to the output directory: the colour
// buffer as PNG, a thumbnail, a printable PDF colouring page, and the
// drawing as JSON.  Scores and achievements are kept in a SQLite database,
// so repeated runs accumulate points.
//
// Configuration is read from the environment, or from a .env file:
//
//	LOG_LEVEL        zerolog level (default "info")
//	COLOURING_DB     database file, or "memory" (default "data/colouring.db")
//	COLOURING_SHAPE  shape to colour (default "star")
//	COLOURING_OUT    output directory (default "out")
//	COLOURING_USER   user name (default "demo")
package main

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/colouring"
	"seehuhn.de/go/colouring/canvas"
	"seehuhn.de/go/colouring/export"
	"seehuhn.de/go/colouring/scoring"
	"seehuhn.de/go/colouring/store"
)

const (
	canvasWidth  = 480
	canvasHeight = 480
	thumbSide    = 128
)

var achievements = []scoring.Achievement{
	{ID: "first-colours", Requirement: 50},
	{ID: "steady-hand", Requirement: 500},
	{ID: "gallery", Requirement: 2000},
}

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("demo failed")
	}
}

func run(ctx context.Context) error {
	st, closeStore, err := openStore(getEnv("COLOURING_DB", "data/colouring.db"))
	if err != nil {
		return err
	}
	defer closeStore()

	notify := scoring.NotifierFunc(func(_ context.Context, user string, a scoring.Achievement) error {
		log.Info().Str("user", user).Str("achievement", a.ID).Msg("achievement unlocked")
		return nil
	})
	engine := scoring.NewEngine(st, achievements,
		scoring.WithNotifier(notify),
		scoring.WithLogger(log.Logger))

	user := getEnv("COLOURING_USER", "demo")

	// announce unlocks which an earlier run could not deliver
	if _, err := engine.NotifyPending(ctx, user); err != nil {
		log.Warn().Err(err).Msg("pending notifications failed")
	}

	task := scoring.Task{
		ID:        "demo-" + getEnv("COLOURING_SHAPE", "star"),
		ShapeID:   getEnv("COLOURING_SHAPE", "star"),
		MaxPoints: 100,
		TimeLimit: 5 * time.Minute,
	}
	s, err := colouring.NewSession(user, task, canvasWidth, canvasHeight, engine,
		colouring.WithLogger(log.Logger))
	if err != nil {
		return err
	}

	play(s.Canvas())
	log.Info().
		Int("strokes", s.Canvas().StrokeCount()).
		Float64("coverage", s.Coverage()).
		Msg("painting finished")

	res, err := s.Submit(ctx)
	if err != nil {
		return err
	}
	log.Info().
		Str("attempt", res.Attempt.ID).
		Int("score", res.Attempt.Score).
		Int("cumulative", res.Cumulative).
		Int("level", res.Level).
		Int("unlocked", len(res.Unlocked)).
		Msg("attempt submitted")

	return writeOutputs(getEnv("COLOURING_OUT", "out"), s.Canvas())
}

// play paints spiral strokes from the centre outwards, and undoes and
// redoes one of them on the way.
func play(c *canvas.Canvas) {
	centre := vec.Vec2{X: canvasWidth / 2, Y: canvasHeight / 2}
	palette := []color.NRGBA{
		{R: 230, G: 57, B: 70, A: 255},
		{R: 241, G: 160, B: 50, A: 255},
		{R: 42, G: 157, B: 143, A: 255},
		{R: 38, G: 70, B: 83, A: 220},
	}

	const turns = 14
	for i := range turns {
		var pts []vec.Vec2
		for step := range 120 {
			phi := float64(i)*0.45 + float64(step)*0.11
			r := 6 + float64(step)*1.9
			pts = append(pts, vec.Vec2{
				X: centre.X + r*math.Cos(phi),
				Y: centre.Y + r*math.Sin(phi),
			})
		}

		// a gesture must start inside the shape
		for len(pts) > 0 && !c.Contains(pts[0]) {
			pts = pts[1:]
		}
		if len(pts) == 0 {
			continue
		}
		paint := canvas.Paint{Color: palette[i%len(palette)], Width: 26}
		c.BeginStroke(pts[0], paint)
		for _, pt := range pts[1:] {
			c.ExtendStroke(pt)
		}
		c.CommitStroke()

		if i == turns/2 {
			c.Undo()
			c.Redo()
		}
	}
}

func writeOutputs(dir string, c *canvas.Canvas) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	writeFile := func(name string, write func(f *os.File) error) error {
		fname := filepath.Join(dir, name)
		f, err := os.Create(fname)
		if err != nil {
			return err
		}
		if err := write(f); err != nil {
			f.Close()
			return fmt.Errorf("%s: %w", fname, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Info().Str("file", fname).Msg("written")
		return nil
	}

	if err := writeFile("canvas.png", func(f *os.File) error {
		return export.WritePNG(f, c.Buffer(), 0)
	}); err != nil {
		return err
	}
	if err := writeFile("thumbnail.png", func(f *os.File) error {
		return export.WritePNG(f, c.Buffer(), thumbSide)
	}); err != nil {
		return err
	}
	if err := writeFile("drawing.json", func(f *os.File) error {
		return export.WriteDrawing(f, c)
	}); err != nil {
		return err
	}

	pdfName := filepath.Join(dir, "page.pdf")
	bounds := c.Bounds()
	err := export.WriteColouringPage(pdfName, c.Boundary(), c.Strokes(), bounds.Dx(), bounds.Dy())
	if err != nil {
		return fmt.Errorf("%s: %w", pdfName, err)
	}
	log.Info().Str("file", pdfName).Msg("written")
	return nil
}

func openStore(dsn string) (scoring.Store, func(), error) {
	if dsn == "memory" {
		return store.NewMemory(), func() {}, nil
	}
	db, err := store.OpenSQLite(dsn, store.WithLogger(log.Logger))
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("closing database")
		}
	}, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
