/*brickvol converts grid snapshots into brick-of-bytes volumetric files.

Each snapshot named in the config file is loaded, quantized into per-channel
byte volumes, and appended to the output manifest, one animation frame per
snapshot. Modes and parameters come from a gcfg config file:

	brickvol -Config encode.cfg
	brickvol -ExampleConfig
*/
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/gcfg.v1"

	"github.com/vgrid/brickvol/format"
	"github.com/vgrid/brickvol/grid"
	"github.com/vgrid/brickvol/snapshot"
	"github.com/vgrid/brickvol/vol"
)

const exampleConfig = `[Encode]

#######################
# Required Parameters #
#######################

# One line per snapshot, encoded in order as consecutive frames.
SnapshotFile = frames/vorticity0000.snap
SnapshotFile = frames/vorticity0001.snap

OutDir   = out
BaseName = vorticity

#######################
# Optional Parameters #
#######################

# StartFrame = 0
# SymmetricRange = false
# VolumeDir = Vols`

type encodeConfig struct {
	// Required
	SnapshotFile []string
	OutDir       string
	BaseName     string
	// Optional
	StartFrame     int
	SymmetricRange bool
	VolumeDir      string
}

type configFile struct {
	Encode encodeConfig
}

func main() {
	var (
		configPath   string
		printExample bool
	)
	flag.StringVar(
		&configPath, "Config", "",
		"Configuration file with an [Encode] section.",
	)
	flag.BoolVar(
		&printExample, "ExampleConfig", false,
		"Print an example configuration file and exit.",
	)
	flag.Parse()

	if printExample {
		fmt.Println(exampleConfig)
		return
	}
	if configPath == "" {
		log.Fatal("No config file given. Run with -ExampleConfig for a template.")
	}

	var cfg configFile
	if err := gcfg.ReadFileInto(&cfg, configPath); err != nil {
		log.Fatalf("Error parsing config file %s: %s", configPath, err)
	}
	if err := validate(&cfg.Encode); err != nil {
		log.Fatalf("Invalid config file %s: %s", configPath, err)
	}

	var opts []vol.EncoderOption
	opts = append(opts, vol.WithSymmetricRange(cfg.Encode.SymmetricRange))
	if cfg.Encode.VolumeDir != "" {
		opts = append(opts, vol.WithVolumeDir(cfg.Encode.VolumeDir))
	}

	enc, err := vol.NewEncoder(vol.NewDirSink(cfg.Encode.OutDir), opts...)
	if err != nil {
		log.Fatalf("Error creating encoder: %s", err)
	}

	for i, path := range cfg.Encode.SnapshotFile {
		frame := uint32(cfg.Encode.StartFrame + i)
		res, err := encodeSnapshot(enc, path, cfg.Encode.BaseName, frame)
		if err != nil {
			log.Fatalf("Error encoding %s: %s", path, err)
		}
		log.Printf("Frame %d: %s -> %d files", frame, path, len(res.Files))
		if res.ClampedMagnitudes > 0 {
			log.Printf("Frame %d: clamped %d out-of-bound magnitudes", frame, res.ClampedMagnitudes)
		}
	}
}

func validate(cfg *encodeConfig) error {
	if len(cfg.SnapshotFile) == 0 {
		return fmt.Errorf("no SnapshotFile entries")
	}
	if cfg.OutDir == "" {
		return fmt.Errorf("OutDir not set")
	}
	if cfg.BaseName == "" {
		return fmt.Errorf("BaseName not set")
	}
	if cfg.StartFrame < 0 {
		return fmt.Errorf("StartFrame must not be negative")
	}

	return nil
}

// encodeSnapshot loads one snapshot, dispatching on the field kind recorded
// in its header, and encodes it as one frame of byte volumes.
func encodeSnapshot(enc *vol.Encoder, path, base string, frame uint32) (*vol.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	h, err := snapshot.Inspect(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	switch h.Kind {
	case format.KindScalar:
		return loadAndEncode[grid.Scalar](enc, data, base, frame)
	case format.KindVector:
		return loadAndEncode[grid.Vec3](enc, data, base, frame)
	case format.KindVorton:
		return loadAndEncode[grid.Vorton](enc, data, base, frame)
	default:
		return nil, fmt.Errorf("snapshot holds %s, which has no byte-volume layout", h.Kind)
	}
}

func loadAndEncode[T snapshot.Element, PT grid.ComponentPtr[T]](enc *vol.Encoder, data []byte, base string, frame uint32) (*vol.Result, error) {
	g, err := snapshot.Read[T, PT](bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return vol.Encode(enc, g, base, frame)
}
