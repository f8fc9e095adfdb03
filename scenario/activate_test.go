package scenario_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genconf/genconf/scenario"
)

// triggerConfig mirrors the orchestrator config used by the historical
// trigger suite: a default scenario plus priority-1 and priority-5
// scenarios sharing one env trigger, and AND/OR condition scenarios.
const triggerConfig = `{
	"senarios": [
		{
			"value": "base",
			"path": "template/base",
			"trigger": {"source": "default"}
		},
		{
			"value": "p1_scenario",
			"path": "template/p1",
			"priority": 1,
			"trigger": {"source": "env", "conditions": [{"key": "TEST_TRIGGER", "regex": "active"}]}
		},
		{
			"value": "p5_scenario",
			"path": "template/p5",
			"priority": 5,
			"required_env_vars": ["P5_REQUIRED"],
			"trigger": {"source": "env", "conditions": [{"key": "TEST_TRIGGER", "regex": "active"}]}
		},
		{
			"value": "and_logic_scenario",
			"path": "template/and",
			"priority": 3,
			"trigger": {"source": "env", "logic": "and", "conditions": [
				{"key": "COND_A", "regex": "foo"},
				{"key": "COND_B", "regex": "bar"}
			]}
		},
		{
			"value": "or_logic_scenario",
			"path": "template/or",
			"priority": 4,
			"trigger": {"source": "env", "logic": "or", "conditions": [
				{"key": "COND_C", "regex": "baz"},
				{"key": "COND_D", "regex": "qux"}
			]}
		}
	]
}`

func activeValues(scenarios []scenario.Scenario) []string {
	values := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		values = append(values, s.Value)
	}

	return values
}

func TestActivate(t *testing.T) {
	t.Parallel()

	cfg, err := scenario.ParseConfig([]byte(triggerConfig))
	require.NoError(t, err)

	tcs := map[string]struct {
		env  scenario.Env
		want []string
	}{
		"default only": {
			env:  scenario.Env{},
			want: []string{"base"},
		},
		"env trigger activates both priorities sorted descending": {
			env:  scenario.Env{"TEST_TRIGGER": "active", "P5_REQUIRED": "present"},
			want: []string{"base", "p5_scenario", "p1_scenario"},
		},
		"env trigger matches anywhere in the value": {
			env:  scenario.Env{"TEST_TRIGGER": "now-active-here"},
			want: []string{"base", "p5_scenario", "p1_scenario"},
		},
		"and logic partial match stays inactive": {
			env:  scenario.Env{"COND_A": "foo", "COND_B": "miss"},
			want: []string{"base"},
		},
		"and logic full match activates": {
			env:  scenario.Env{"COND_A": "foo", "COND_B": "bar"},
			want: []string{"base", "and_logic_scenario"},
		},
		"or logic without matches stays inactive": {
			env:  scenario.Env{"COND_C": "miss", "COND_D": "miss"},
			want: []string{"base"},
		},
		"or logic first condition activates": {
			env:  scenario.Env{"COND_C": "baz", "COND_D": "miss"},
			want: []string{"base", "or_logic_scenario"},
		},
		"or logic second condition activates": {
			env:  scenario.Env{"COND_C": "miss", "COND_D": "qux"},
			want: []string{"base", "or_logic_scenario"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			active, err := scenario.Activate(cfg, tc.env)
			require.NoError(t, err)
			assert.Equal(t, tc.want, activeValues(active))
		})
	}
}

func TestActivatePriorityOrder(t *testing.T) {
	t.Parallel()

	cfg, err := scenario.ParseConfig([]byte(triggerConfig))
	require.NoError(t, err)

	active, err := scenario.Activate(cfg, scenario.Env{"TEST_TRIGGER": "active", "P5_REQUIRED": "x"})
	require.NoError(t, err)
	require.Len(t, active, 3)

	priorities := make([]int, 0, len(active))
	for _, s := range active {
		priorities = append(priorities, s.Priority)
	}

	assert.Equal(t, []int{9999, 5, 1}, priorities)
}

func TestActivateUserTrigger(t *testing.T) {
	t.Parallel()

	doc := `{
		"senario_env_key": "DEPLOY_KIND",
		"senarios": [
			{"value": "base", "path": "b", "trigger": {"source": "default"}},
			{"value": "prod", "path": "p", "priority": 1, "trigger": {"source": "user"}}
		]
	}`
	cfg, err := scenario.ParseConfig([]byte(doc))
	require.NoError(t, err)

	active, err := scenario.Activate(cfg, scenario.Env{"DEPLOY_KIND": "prod"})
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "prod"}, activeValues(active))

	active, err = scenario.Activate(cfg, scenario.Env{"DEPLOY_KIND": "staging"})
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, activeValues(active))

	// The selection variable must match exactly, not as a prefix.
	active, err = scenario.Activate(cfg, scenario.Env{"DEPLOY_KIND": "production"})
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, activeValues(active))
}

func TestActivateDefaultPriorityForced(t *testing.T) {
	t.Parallel()

	doc := `{
		"senarios": [
			{"value": "base", "path": "b", "priority": 1, "trigger": {"source": "default"}},
			{"value": "extra", "path": "e", "priority": 50, "trigger": {"source": "user"}}
		]
	}`
	cfg, err := scenario.ParseConfig([]byte(doc))
	require.NoError(t, err)

	active, err := scenario.Activate(cfg, scenario.Env{scenario.DefaultScenarioEnvKey: "extra"})
	require.NoError(t, err)
	require.Len(t, active, 2)

	// The configured priority 1 on a default trigger is ignored; the
	// default scenario always applies first.
	assert.Equal(t, "base", active[0].Value)
	assert.Equal(t, scenario.DefaultScenarioPriority, active[0].Priority)
	assert.Equal(t, "extra", active[1].Value)
}

func TestActivateEqualPrioritiesKeepConfigOrder(t *testing.T) {
	t.Parallel()

	doc := `{
		"senarios": [
			{"value": "first", "path": "a", "priority": 7, "trigger": {"source": "env", "conditions": [{"key": "ON", "regex": "1"}]}},
			{"value": "second", "path": "b", "priority": 7, "trigger": {"source": "env", "conditions": [{"key": "ON", "regex": "1"}]}}
		]
	}`
	cfg, err := scenario.ParseConfig([]byte(doc))
	require.NoError(t, err)

	active, err := scenario.Activate(cfg, scenario.Env{"ON": "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, activeValues(active))
}

func TestActivateInvalidRegex(t *testing.T) {
	t.Parallel()

	doc := `{
		"senarios": [
			{"value": "broken", "path": "b", "trigger": {"source": "env", "conditions": [{"key": "A", "regex": "("}]}}
		]
	}`
	cfg, err := scenario.ParseConfig([]byte(doc))
	require.NoError(t, err)

	_, err = scenario.Activate(cfg, scenario.Env{"A": "anything"})
	require.ErrorIs(t, err, scenario.ErrInvalidConfig)
}

func TestRequiredEnvVars(t *testing.T) {
	t.Parallel()

	cfg := &scenario.Config{
		DefaultEnvVars: envVars("HOSTNAME", "REGION"),
	}

	active := []scenario.Scenario{
		{Value: "a", RequiredEnvVars: envVars("REGION", "A_TOKEN")},
		{Value: "b", RequiredEnvVars: envVars("B_TOKEN", "HOSTNAME")},
	}

	got := scenario.RequiredEnvVars(cfg, active)
	keys := make([]string, 0, len(got))

	for _, ev := range got {
		keys = append(keys, ev.Key)
	}

	assert.Equal(t, []string{"HOSTNAME", "REGION", "A_TOKEN", "B_TOKEN"}, keys)
}

func envVars(keys ...string) []scenario.EnvVar {
	evs := make([]scenario.EnvVar, 0, len(keys))
	for _, k := range keys {
		evs = append(evs, scenario.EnvVar{Key: k})
	}

	return evs
}

func TestValidateEnv(t *testing.T) {
	t.Parallel()

	cfg, err := scenario.ParseConfig([]byte(triggerConfig))
	require.NoError(t, err)

	t.Run("missing variable fails with the contract message", func(t *testing.T) {
		t.Parallel()

		active, err := scenario.Activate(cfg, scenario.Env{"TEST_TRIGGER": "active"})
		require.NoError(t, err)

		err = scenario.ValidateEnv(cfg, active, scenario.Env{"TEST_TRIGGER": "active"})
		require.ErrorIs(t, err, scenario.ErrMissingEnvVars)
		assert.Contains(t, err.Error(), "Missing required environment variables")
		assert.Contains(t, err.Error(), "P5_REQUIRED")
	})

	t.Run("present variables pass", func(t *testing.T) {
		t.Parallel()

		env := scenario.Env{"TEST_TRIGGER": "active", "P5_REQUIRED": "x"}
		active, err := scenario.Activate(cfg, env)
		require.NoError(t, err)

		require.NoError(t, scenario.ValidateEnv(cfg, active, env))
	})

	t.Run("empty value counts as present", func(t *testing.T) {
		t.Parallel()

		env := scenario.Env{"TEST_TRIGGER": "active", "P5_REQUIRED": ""}
		active, err := scenario.Activate(cfg, env)
		require.NoError(t, err)

		require.NoError(t, scenario.ValidateEnv(cfg, active, env))
	})
}
