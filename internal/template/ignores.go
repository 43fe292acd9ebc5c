package template

import "github.com/mrz1836/go-syncguard/internal/safety"

// IgnoreCategory is a titled group of ignore values written together.
type IgnoreCategory struct {
	Title  string
	Values []string
}

// baseCategories are written into every generated profile, in order.
//
//nolint:gochecknoglobals // static ignore catalogue
var baseCategories = []IgnoreCategory{
	{
		Title: "System caches",
		Values: []string{
			"Name .DS_Store",
			"Name ._*",
			"Name .Spotlight-V100",
			"Name .Trash*",
			"Name .fseventsd",
			"Name .TemporaryItems",
			"Name .DocumentRevisions-V100",
			"Name Thumbs.db",
			"Name desktop.ini",
			"Name *.tmp",
			"Name *~",
		},
	},
	{
		Title: "Development tools",
		Values: []string{
			"Name .git",
			"Name .svn",
			"Name .hg",
			"Name node_modules",
			"Name __pycache__",
			"Name *.pyc",
			"Name .venv",
			"Name .tox",
			"Name .gradle",
			"Name .terraform",
		},
	},
	{
		Title: "IDE and editors",
		Values: []string{
			"Name .idea",
			"Name .vscode",
			"Name *.swp",
			"Name *.swo",
			"Name .project",
			"Name .settings",
		},
	},
	{
		Title: "Applications",
		Values: []string{
			"Name ~$*",
			"Name .~lock.*",
			"Name *.part",
			"Name *.crdownload",
			"Name .unison.*",
			"Name .sync",
		},
	},
}

// serviceIgnores are the extensions for the destination's cloud provider.
//
//nolint:gochecknoglobals // static ignore catalogue
var serviceIgnores = map[safety.Service][]string{
	safety.ServiceGoogleDrive: {
		"Name .tmp.drivedownload",
		"Name .tmp.driveupload",
		"Name *.gdoc",
		"Name *.gsheet",
		"Name *.gslides",
	},
	safety.ServiceDropbox: {
		"Name .dropbox",
		"Name .dropbox.attr",
		"Name .dropbox.cache",
	},
	safety.ServiceOneDrive: {
		"Name .849C9593-D756-4E56-8D6E-42412F2A707B",
		"Name *.odlock",
	},
	safety.ServiceICloud: {
		"Name *.icloud",
		"Name .iCloud",
	},
	safety.ServiceBox: {
		"Name .boxsync",
		"Name .box.*",
	},
}
