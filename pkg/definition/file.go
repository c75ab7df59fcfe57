package definition

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentstation/skaffolder/pkg/constants"
	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/fields"
)

// Read loads the definition stored at path.
func Read(path string) (*fields.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFoundError("definition", path)
		}
		return nil, errors.NewDefinitionParseError(path, "cannot read file", err)
	}
	r, err := Decode(data)
	if err != nil {
		var parseErr *errors.DefinitionParseError
		if stderrors.As(err, &parseErr) {
			parseErr.File = path
		}
		return nil, err
	}
	return r, nil
}

// Write stores r at path. The file is replaced in one step: on failure the
// previous content is left untouched and a *errors.WriteError is returned.
func Write(path string, r *fields.Resource) error {
	data, err := Encode(r)
	if err != nil {
		return errors.NewWriteError(path, err)
	}
	return WriteFile(path, data)
}

// WriteFile atomically replaces path with data.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.NewWriteError(path, err)
	}

	tempFile, err := os.CreateTemp(dir, ".skaffolder-*")
	if err != nil {
		return errors.NewWriteError(path, err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return errors.NewWriteError(path, err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.NewWriteError(path, err)
	}
	if err := os.Chmod(tempPath, constants.FilePermissions); err != nil {
		_ = os.Remove(tempPath)
		return errors.NewWriteError(path, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return errors.NewWriteError(path, err)
	}
	return nil
}
