package classfile

import (
	"strings"

	"github.com/arthur-debert/shade/pkg/errors"
)

// Remapper supplies the replacement for each kind of reference. Returning
// the argument unchanged leaves the site alone.
type Remapper interface {
	MapType(internal string) string
	MapDescriptor(desc string) string
	MapSignature(sig string, typeSig bool) string
	MapValue(value string) string
}

// Remap rewrites every reference site of the class through r.
func (cls *Class) Remap(r Remapper) error {
	renamed, err := cls.remapPool(r)
	if err != nil {
		return err
	}

	w := &walker{cls: cls, onRef: func(off int, kind refKind) error {
		old, err := cls.utf8(cls.u2At(off))
		if err != nil {
			return err
		}
		var mapped string
		switch kind {
		case refDescriptor:
			mapped = r.MapDescriptor(old)
		case refSignature:
			mapped = r.MapSignature(old, false)
		case refTypeSignature:
			mapped = r.MapSignature(old, true)
		case refValue:
			mapped = r.MapValue(old)
		}
		if mapped == old {
			return nil
		}
		idx, err := cls.addUTF8(mapped)
		if err != nil {
			return err
		}
		cls.setU2At(off, idx)
		return nil
	}}
	w.onInnerName = func(off, inner int) error {
		return cls.remapInnerName(off, inner, renamed[inner])
	}
	return w.walk()
}

// remapPool rewrites the constants that carry names. Only the entries present
// before rewriting are visited; appended Utf8 entries are already mapped.
// It returns the previous names of the Class constants it renamed.
func (cls *Class) remapPool(r Remapper) (map[int]string, error) {
	renamed := make(map[int]string)
	n := len(cls.pool)
	for i := 1; i < n; i++ {
		k := &cls.pool[i]
		var (
			at int
			fn func(string) string
		)
		switch k.tag {
		case tagClass:
			fn = func(name string) string {
				if len(name) > 0 && name[0] == '[' {
					return r.MapDescriptor(name)
				}
				return r.MapType(name)
			}
		case tagString:
			fn = r.MapValue
		case tagNameAndType:
			at, fn = 2, r.MapDescriptor
		case tagMethodType:
			fn = r.MapDescriptor
		case tagPackage:
			fn = func(pkg string) string { return mapPackage(r, pkg) }
		default:
			continue
		}

		old, err := cls.utf8(k.ref(at))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrClassFormat, "constant #%d", i)
		}
		mapped := fn(old)
		if mapped == old {
			continue
		}
		idx, err := cls.addUTF8(mapped)
		if err != nil {
			return nil, err
		}
		// addUTF8 may have grown the pool
		cls.pool[i].setRef(at, idx)
		cls.dirty = true
		if cls.pool[i].tag == tagClass {
			renamed[i] = old
		}
	}
	return renamed, nil
}

const packageInfo = "/package-info"

// mapPackage maps a package name the way its package-info class would be
// mapped. Packages whose package-info lands in the unnamed package are left
// alone.
func mapPackage(r Remapper, pkg string) string {
	mapped := r.MapType(pkg + packageInfo)
	if mapped == pkg+packageInfo || !strings.HasSuffix(mapped, packageInfo) {
		return pkg
	}
	return strings.TrimSuffix(mapped, packageInfo)
}

// remapInnerName updates the InnerClasses inner_name at off after the inner
// class constant was renamed from previous. Names that did not follow the
// binary name of the class are left as they are.
func (cls *Class) remapInnerName(off, inner int, previous string) error {
	if previous == "" {
		return nil
	}
	old, err := cls.utf8(cls.u2At(off))
	if err != nil {
		return err
	}
	if old != simpleName(previous) {
		return nil
	}
	current, err := cls.className(inner)
	if err != nil {
		return err
	}
	name := simpleName(current)
	if name == "" || name == old {
		return nil
	}
	idx, err := cls.addUTF8(name)
	if err != nil {
		return err
	}
	cls.setU2At(off, idx)
	return nil
}

// simpleName returns the part of a binary name after its last '$', minus
// the digits javac prepends for local classes. It is empty for top-level
// names and anonymous classes.
func simpleName(name string) string {
	i := strings.LastIndexByte(name, '$')
	if i < 0 {
		return ""
	}
	rest := name[i+1:]
	return strings.TrimLeft(rest, "0123456789")
}

// Transform rewrites a class file through r and returns the new bytes and
// the class's (possibly renamed) internal name. Unchanged classes are
// returned as the input slice.
func Transform(data []byte, r Remapper) ([]byte, string, error) {
	cls, err := Parse(data)
	if err != nil {
		return nil, "", err
	}
	if err := cls.Remap(r); err != nil {
		return nil, "", err
	}
	name, err := cls.Name()
	if err != nil {
		return nil, "", err
	}
	if !cls.Modified() {
		return data, name, nil
	}
	return cls.Bytes(), name, nil
}

// Visit walks every reference site of a class through r without producing
// output, and returns the class name.
func Visit(data []byte, r Remapper) (string, error) {
	cls, err := Parse(data)
	if err != nil {
		return "", err
	}
	name, err := cls.Name()
	if err != nil {
		return "", err
	}
	return name, cls.Remap(r)
}

// ClassName returns the internal name a class file declares for itself.
func ClassName(data []byte) (string, error) {
	cls, err := Parse(data)
	if err != nil {
		return "", err
	}
	return cls.Name()
}

// Strings returns the values of the String constants in pool order.
func Strings(data []byte) ([]string, error) {
	cls, err := Parse(data)
	if err != nil {
		return nil, err
	}
	var out []string
	for i, k := range cls.pool {
		if k.tag != tagString {
			continue
		}
		s, err := cls.stringAt(i)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
