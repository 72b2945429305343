package obj

import (
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/mappingtool/internal/assets"
)

// loadLibrary parses an mtllib. A missing library is a warning, not an
// error: the model still loads with default materials.
func (d *decoder) loadLibrary(name string) {
	if d.open == nil {
		d.warnf("material library %q not loaded", name)
		return
	}
	rc, err := d.open(name)
	if err != nil {
		d.warnf("material library %q: %v", name, err)
		return
	}
	defer rc.Close()

	if err := d.decodeLibrary(rc, name); err != nil {
		d.warnf("material library %q: %v", name, err)
	}
}

func (d *decoder) decodeLibrary(r io.Reader, name string) error {
	var cur *assets.Material
	return d.parse(r, name, func(kind string, args []string) error {
		if kind == "newmtl" {
			if len(args) < 1 {
				return d.errorf("newmtl with no name")
			}
			cur = defaultMaterial(args[0])
			cur.DiffuseColor = [3]float32{1, 1, 1}
			if idx, ok := d.materials[cur.Name]; ok {
				// Redefinition replaces the earlier material in place.
				d.scene.Materials[idx] = cur
			} else {
				d.addMaterial(cur)
			}
			return nil
		}
		if cur == nil {
			d.warnf("%s before newmtl", kind)
			return nil
		}

		switch kind {
		case "Kd":
			return d.color(args, &cur.DiffuseColor)
		case "Ka":
			return d.color(args, &cur.AmbientColor)
		case "Ks":
			return d.color(args, &cur.SpecularColor)
		case "Ns":
			return d.scalar(args, &cur.Shininess)
		case "d":
			return d.scalar(args, &cur.Opacity)
		case "Tr":
			var tr float32
			if err := d.scalar(args, &tr); err != nil {
				return err
			}
			cur.Opacity = 1 - tr
		case "map_Kd":
			cur.DiffuseTexture = mapFile(args)
		case "illum", "Ke", "Ni", "Tf", "map_Ka", "map_Ks", "map_Bump", "map_bump", "bump", "map_d":
			// Not used by the renderer.
		default:
			d.warnf("unsupported material statement %q", kind)
		}
		return nil
	})
}

// mapFile extracts the file name from a texture map statement, skipping
// options such as "-s 1 1 1" or "-clamp on".
func mapFile(args []string) string {
	for i := 0; i < len(args); {
		n, ok := mapOptions[args[i]]
		if !ok {
			// Names may contain spaces.
			return strings.Join(args[i:], " ")
		}
		i++
		if n < 0 {
			// Up to -n numbers follow.
			for k := 0; k < -n && i < len(args) && isNumber(args[i]); k++ {
				i++
			}
			continue
		}
		i += n
	}
	return ""
}

// mapOptions gives the argument count of each texture map option;
// negative counts are upper bounds on a run of numbers.
var mapOptions = map[string]int{
	"-blendu": 1, "-blendv": 1, "-bm": 1, "-boost": 1, "-cc": 1,
	"-clamp": 1, "-imfchan": 1, "-texres": 1, "-type": 1,
	"-mm": 2,
	"-o":  -3, "-s": -3, "-t": -3,
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 32)
	return err == nil
}

func (d *decoder) color(args []string, dst *[3]float32) error {
	v, err := d.floats(args, 1)
	if err != nil {
		return err
	}
	if len(args) < 3 {
		// A single value sets all three channels.
		*dst = [3]float32{v[0], v[0], v[0]}
		return nil
	}
	v, err = d.floats(args, 3)
	if err != nil {
		return err
	}
	*dst = [3]float32{v[0], v[1], v[2]}
	return nil
}

func (d *decoder) scalar(args []string, dst *float32) error {
	v, err := d.floats(args, 1)
	if err != nil {
		return err
	}
	*dst = v[0]
	return nil
}
