package config

import (
	"fmt"
	"os"
)

// defaultYAML is the starter configuration written by the init command. It
// carries the reference target this tool was first built for.
const defaultYAML = `package:
  name: pb-dbhandler
  doc_name: pb-dbhandler-doc
  # version is discovered from the source tree's git tags when omitted
  maintainer: Frank Brehm <frank.brehm@profitbricks.com>
  contact: frank.brehm@profitbricks.com

source:
  dir: .
  language: python
  extensions: [".py"]
  markers: ["_", "__"]

i18n:
  domain: py_pb_dbhandler
  po_dir: po
  locale_root: /usr/share/locale

build:
  output_dir: build
  state_dir: .pkgforge

staging:
  root: debian/pb-dbhandler
  doc_root: debian/pb-dbhandler-doc
  install_files: []
  links: []

docs:
  source_paths: ["src"]
  paginated_command: []

archive:
  output_dir: dist
  assemble_command: []

app:
  build_command: ["python", "setup.py", "build"]
  install_command: ["python", "setup.py", "install", "--root={root}", "--no-compile", "-O0"]

watch:
  paths: ["src", "po"]
  rebuild_interval: "1h"
`

// WriteDefault writes the starter configuration to path. Existing files are
// only overwritten when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	return os.WriteFile(path, []byte(defaultYAML), 0o644)
}
