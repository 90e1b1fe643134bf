package store

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/jsphweid/quantdex/model"
	"github.com/jsphweid/quantdex/util"
)

var idPattern = regexp.MustCompile(`^[0-9A-Za-z_-]+$`)

func validID(id string) error {
	if !idPattern.MatchString(id) {
		return fault.Wrap(fault.New("invalid session id: "+id), ftag.With(ftag.InvalidArgument))
	}
	return nil
}

// File keeps one gob file per session in a directory.
type File struct {
	dir string
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, fault.Wrap(err, fmsg.With("could not create state dir "+dir))
	}
	return &File{dir: dir}, nil
}

func (f *File) path(id string) string {
	return filepath.Join(f.dir, id+".dat")
}

func (f *File) Save(id string, s model.Snapshot) error {
	if err := validID(id); err != nil {
		return err
	}
	tmp := f.path(id) + ".tmp"
	if err := util.CreateBinary(tmp, s); err != nil {
		return err
	}
	if err := os.Rename(tmp, f.path(id)); err != nil {
		return fault.Wrap(err, fmsg.With("could not move snapshot into place"))
	}
	return nil
}

func (f *File) Load(id string) (model.Snapshot, error) {
	if err := validID(id); err != nil {
		return model.Snapshot{}, err
	}
	return util.ReadBinary[model.Snapshot](f.path(id))
}

func (f *File) Delete(id string) error {
	if err := validID(id); err != nil {
		return err
	}
	err := os.Remove(f.path(id))
	if os.IsNotExist(err) {
		return fault.Wrap(err, fmsg.With("no session "+id), ftag.With(ftag.NotFound))
	}
	if err != nil {
		return fault.Wrap(err, fmsg.With("could not delete session "+id))
	}
	return nil
}

func (f *File) List() ([]string, error) {
	files, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("could not read state dir"))
	}

	r := regexp.MustCompile(`^([0-9A-Za-z_-]+)\.dat$`)
	var res []string
	for _, file := range files {
		if m := r.FindStringSubmatch(file.Name()); m != nil {
			res = append(res, m[1])
		}
	}
	sort.Strings(res)
	return res, nil
}
