// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ToolchainNotFoundId Id = iota + 1
	ToolchainTooOldId
	InputNotFoundId
	UnsupportedInputId
	MissingEntryPointId
	ImageBuildFailedId
	StagingFailedId
	BundlingFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal markdown using the glamour style
// stylePath ("dark", "light", "auto", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	toolchainNotFoundIssue = &Issue{
		id: ToolchainNotFoundId,
		mdMsg: `
# No JDK found!

jar2native needs a JDK (9 or newer) providing ` + "`java`, `jdeps` and `jlink`" + `.

## Search order
1. ` + "`--jdk-path`" + ` flag (or ` + "`jdk_path`" + ` in the config file)
2. ` + "`$JAVA_HOME/bin/java`" + `
3. ` + "`java`" + ` on your PATH

## Things you can try
- Point jar2native at an installation:
~~~
$ jar2native --jdk-path /usr/lib/jvm/java-21 app.jar
~~~
- Or export JAVA_HOME:
~~~
$ export JAVA_HOME=/usr/lib/jvm/java-21
~~~`,
		extLinks: []HttpLink{"https://adoptium.net/"},
	}

	toolchainTooOldIssue = &Issue{
		id: ToolchainTooOldId,
		mdMsg: `
# JDK too old!

The JDK that was found predates the Java module system (version 1.8 or
earlier). ` + "`jdeps --print-module-deps` and `jlink`" + ` need JDK 9 or newer.

## Things you can try
- Install a current JDK and pass it with ` + "`--jdk-path`" + `
- Update JAVA_HOME to point at a JDK 9+ installation`,
	}

	inputNotFoundIssue = &Issue{
		id: InputNotFoundId,
		mdMsg: `
# Input archive not found!

The path given on the command line does not name an existing file.

## Things you can try
- Check the spelling of the path
- Build the application first (e.g. ` + "`mvn package`" + `) and pass the produced jar`,
	}

	unsupportedInputIssue = &Issue{
		id: UnsupportedInputId,
		mdMsg: `
# Unsupported input type!

jar2native packages Java application archives only: files ending in
` + "`.jar` or `.war`" + ` (in any letter case).`,
	}

	missingEntryPointIssue = &Issue{
		id: MissingEntryPointId,
		mdMsg: `
# The jar has no entry point!

An executable jar must declare ` + "`Main-Class`" + ` in ` + "`META-INF/MANIFEST.MF`" + `.

## Things you can try
- Maven: configure the ` + "`maven-jar-plugin`" + ` manifest ` + "`mainClass`" + `
- Gradle: set ` + "`jar { manifest { attributes 'Main-Class': 'com.example.Main' } }`" + `
- Repackage with the jar tool:
~~~
$ jar --update --file app.jar --main-class com.example.Main
~~~`,
	}

	imageBuildFailedIssue = &Issue{
		id: ImageBuildFailedId,
		mdMsg: `
# Runtime image build failed!

jlink rejected the module set. The jlink message above names the cause.

## Things you can try
- Remove misspelled names from ` + "`--extra-modules`" + `
- Check that the JDK ships its ` + "`jmods`" + ` directory (some distributions package it separately)
- Use ` + "`jar2native modules <archive>`" + ` to inspect the resolved set
- Fall back to linking every module with ` + "`--all-modules`",
	}

	stagingFailedIssue = &Issue{
		id: StagingFailedId,
		mdMsg: `
# Staging failed!

The archive or runtime image could not be copied into the work directory.

## Things you can try
- Make sure the temporary directory is writable and has free space
- Set ` + "`work_root`" + ` in the config file to a directory you own`,
	}

	bundlingFailedIssue = &Issue{
		id: BundlingFailedId,
		mdMsg: `
# Bundling failed!

The executable could not be written.

## Things you can try
- Check that the output directory (` + "`--output-dir`" + `) is writable
- Make sure no running copy of the executable is locking the file`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be parsed or does not match the schema.

## Things you can try
- Show where jar2native looks for the file:
~~~
$ jar2native config path
~~~
- Regenerate a default file and compare:
~~~
$ jar2native config dump
~~~`,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	issues = map[Id]*Issue{
		toolchainNotFoundIssue.Id(): toolchainNotFoundIssue,
		toolchainTooOldIssue.Id():   toolchainTooOldIssue,
		inputNotFoundIssue.Id():     inputNotFoundIssue,
		unsupportedInputIssue.Id():  unsupportedInputIssue,
		missingEntryPointIssue.Id(): missingEntryPointIssue,
		imageBuildFailedIssue.Id():  imageBuildFailedIssue,
		stagingFailedIssue.Id():     stagingFailedIssue,
		bundlingFailedIssue.Id():    bundlingFailedIssue,
		configLoadFailedIssue.Id():  configLoadFailedIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
