package apps_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZuInnoTe/ZuStDPipe/apps"
)

const minimalAppValid = "general:\n name: \"ZuStdPipe Example App\"\n app_definition_version: 0\nmodules:\njobs:\npipelines:\n"

const minimalAppInvalidApp = "special:\n name: \"ZuStdPipe Example App\"\n app_definition_version: 0\nmodules:\njobs:\npipelines:\n"

func TestLoadMinimalValid(t *testing.T) {
	def, err := apps.Load(strings.NewReader(minimalAppValid))
	require.Nil(t, err)
	assert.Equal(t, "ZuStdPipe Example App", def.General.Name)
	assert.Equal(t, uint32(0), def.General.AppDefinitionVersion)
}

func TestLoadMissingGeneralReportedBeforeUnknownField(t *testing.T) {
	_, err := apps.Load(strings.NewReader(minimalAppInvalidApp))
	require.NotNil(t, err)
	assert.Equal(t, "Invalid App definition. Error in Yaml file: missing field `general`", err.Error())
}

func TestLoadUnknownFieldAlongsideGeneral(t *testing.T) {
	doc := "general:\n name: \"x\"\n app_definition_version: 0\nextra: 1\n"
	_, err := apps.Load(strings.NewReader(doc))
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "unknown field `extra`")
}

func TestLoadInvalidYaml(t *testing.T) {
	_, err := apps.Load(strings.NewReader("test\ntest"))
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "Invalid App definition. Error in Yaml file:")
}
