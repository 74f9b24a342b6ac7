package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/fluidsim/internal/particle"
)

const (
	particlesFile = "particles.csv"
	groupsFile    = "groups.csv"
)

// ParticleRow is one particle of a snapshot. Group is the index of the
// owning group in list order, or -1.
type ParticleRow struct {
	Index int     `csv:"index"`
	Flags uint32  `csv:"flags"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	VX    float64 `csv:"vx"`
	VY    float64 `csv:"vy"`
	R     uint8   `csv:"r"`
	G     uint8   `csv:"g"`
	B     uint8   `csv:"b"`
	A     uint8   `csv:"a"`
	Depth float64 `csv:"depth"`
	Group int     `csv:"group"`
}

func (r ParticleRow) Color() particle.Color {
	return particle.Color{R: r.R, G: r.G, B: r.B, A: r.A}
}

type GroupRow struct {
	Index    int     `csv:"index"`
	First    int     `csv:"first"`
	Last     int     `csv:"last"`
	Flags    uint32  `csv:"flags"`
	Strength float64 `csv:"strength"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Angle    float64 `csv:"angle"`
}

// Snapshot is the buffer and group list state of a system between steps.
type Snapshot struct {
	Particles []ParticleRow
	Groups    []GroupRow
}

// Capture copies the committed state of sys. Systems without colors get the
// default color buffer allocated.
func Capture(sys *particle.System) *Snapshot {
	snap := &Snapshot{}

	groupIndex := make(map[*particle.Group]int, sys.GroupCount())
	for i, g := range sys.Groups() {
		groupIndex[g] = i
		xf := g.Transform()
		snap.Groups = append(snap.Groups, GroupRow{
			Index:    i,
			First:    g.First(),
			Last:     g.Last(),
			Flags:    uint32(g.Flags()),
			Strength: g.Strength(),
			X:        xf.P[0],
			Y:        xf.P[1],
			Angle:    xf.Q.Angle(),
		})
	}

	flags := sys.Flags()
	velocities := sys.Velocities()
	owners := sys.ParticleGroups()
	colors := sys.Colors()
	depths := sys.Depths()
	for i, p := range sys.Positions() {
		row := ParticleRow{
			Index: i,
			Flags: uint32(flags[i]),
			X:     p[0],
			Y:     p[1],
			VX:    velocities[i][0],
			VY:    velocities[i][1],
			R:     colors[i].R,
			G:     colors[i].G,
			B:     colors[i].B,
			A:     colors[i].A,
			Group: -1,
		}
		if depths != nil {
			row.Depth = depths[i]
		}
		if g := owners[i]; g != nil {
			row.Group = groupIndex[g]
		}
		snap.Particles = append(snap.Particles, row)
	}
	return snap
}

func (s *Store) SaveSnapshot(runID string, snap *Snapshot) error {
	runDir := s.Dir(runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(runDir, particlesFile), &snap.Particles); err != nil {
		return err
	}
	return writeCSV(filepath.Join(runDir, groupsFile), &snap.Groups)
}

func (s *Store) LoadSnapshot(runID string) (*Snapshot, error) {
	snap := &Snapshot{}
	if err := readCSV(filepath.Join(s.Dir(runID), particlesFile), &snap.Particles); err != nil {
		return nil, err
	}
	if err := readCSV(filepath.Join(s.Dir(runID), groupsFile), &snap.Groups); err != nil {
		return nil, err
	}
	return snap, nil
}

func readCSV(path string, rows any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, rows); err != nil && !errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return nil
}
