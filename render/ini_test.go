package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/genconf/genconf/render"
	"github.com/genconf/genconf/stringtest"
)

func TestINI(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		doc  string
		opts render.Options
		want string
	}{
		"aggregations iterate every child": {
			doc: `{"key": "aggregations", "multi_type": ["object"], "required": true, "children": [
				{"key": "k8s-nodes", "required": true, "default_value": ["master", "worker"]},
				{"key": "worker-nodes", "required": true, "default_value": ["worker"]}
			]}`,
			want: stringtest.File(
				"# ==========================================",
				"# k8s-nodes",
				"# ==========================================",
				"[k8s-nodes:children]",
				"master",
				"worker",
				"",
				"# ==========================================",
				"# worker-nodes",
				"# ==========================================",
				"[worker-nodes:children]",
				"worker",
			),
		},
		"aggregation members resolve from the parent dict": {
			doc: `{"key": "aggregations", "multi_type": ["object"], "required": true,
				"default_value": {"k8s-nodes": ["master", "worker"]},
				"children": [
					{"key": "k8s-nodes", "multi_type": ["list"], "item_multi_type": ["object"], "required": true}
				]}`,
			want: stringtest.File(
				"# ==========================================",
				"# k8s-nodes",
				"# ==========================================",
				"[k8s-nodes:children]",
				"master",
				"worker",
			),
		},
		"aggregation members fall back to child keys": {
			doc: `{"key": "aggregations", "multi_type": ["object"], "required": true, "children": [
				{"key": "k8s-nodes", "multi_type": ["list"], "item_multi_type": ["object"], "required": true, "children": [
					{"key": "master", "multi_type": ["object"], "required": true},
					{"key": "worker", "multi_type": ["object"], "required": true}
				]}
			]}`,
			want: stringtest.File(
				"# ==========================================",
				"# k8s-nodes",
				"# ==========================================",
				"[k8s-nodes:children]",
				"master",
				"worker",
			),
		},
		"global vars overlay children with the root dict": {
			doc: `{"key": "global_vars", "multi_type": ["object"], "required": true,
				"description": "# Global variables",
				"default_value": {"timeout": 30, "extra": "x", "motd": "hello\nworld", "ports": [80, 443], "limits": {"cpu": "500m"}},
				"children": [
					{"key": "ansible_user", "multi_type": ["string"], "default_value": "admin", "required": true},
					{"key": "timeout", "multi_type": ["number"], "default_value": 10, "required": true}
				]}`,
			want: stringtest.File(
				"# ==========================================",
				"# Global variables",
				"# ==========================================",
				"[all:vars]",
				"ansible_user=admin",
				"timeout=30",
				"extra=x",
				`motd=hello\nworld`,
				"ports=[80, 443]",
				"limits={cpu: 500m}",
			),
		},
		"group hosts from strings dicts schemas and extras": {
			doc: `{"key": "groups", "multi_type": ["object"], "required": true,
				"default_value": {"spare": ["spare1"]},
				"children": [
					{"key": "web", "multi_type": ["list"], "item_multi_type": ["object"], "required": true,
						"description": "# Web tier",
						"default_value": ["web1.example.com", "web2.example.com"]},
					{"key": "db", "multi_type": ["list"], "item_multi_type": ["object"], "required": true,
						"default_value": [{"hostname": "db1", "ansible_port": 22}]},
					{"key": "cache", "multi_type": ["list"], "item_multi_type": ["object"], "required": true, "children": [
						{"key": "hostname", "multi_type": ["string"], "regex": "cache-[0-9]+", "required": true},
						{"key": "region", "multi_type": ["string"], "default_value": "east", "required": true}
					]}
				]}`,
			want: stringtest.File(
				"# ==========================================",
				"# Web tier",
				"# ==========================================",
				"[web]",
				"web1.example.com",
				"web2.example.com",
				"",
				"# ==========================================",
				"# db",
				"# ==========================================",
				"[db]",
				"db1 ansible_port=22",
				"",
				"# ==========================================",
				"# cache",
				"# ==========================================",
				"[cache]",
				`"cache-[0-9]+" region=east`,
				"",
				"# ==========================================",
				"# spare",
				"# ==========================================",
				"[spare]",
				"spare1",
			),
		},
		"synthetic host row promotes the first field without hostname": {
			doc: `{"key": "groups", "multi_type": ["object"], "required": true, "children": [
				{"key": "lb", "multi_type": ["list"], "item_multi_type": ["object"], "required": true, "children": [
					{"key": "addr", "multi_type": ["string"], "default_value": "10.0.0.1", "required": true},
					{"key": "weight", "multi_type": ["number"], "default_value": 5, "required": true}
				]}
			]}`,
			want: stringtest.File(
				"# ==========================================",
				"# lb",
				"# ==========================================",
				"[lb]",
				`"10.0.0.1" weight=5`,
			),
		},
		"group vars merge three layers in order": {
			doc: `{"key": "group_vars", "multi_type": ["object"], "required": true,
				"default_value": {"web": {"tier": "frontend", "extra_var": true}, "orphan": {"a": 1}},
				"children": [
					{"key": "web", "multi_type": ["object"], "required": true,
						"description": "# Web vars",
						"default_value": {"retries": 3, "tier": "ignored"},
						"children": [
							{"key": "http_port", "multi_type": ["number"], "default_value": 80, "required": true},
							{"key": "tier", "multi_type": ["string"], "default_value": "schema", "required": true}
						]}
				]}`,
			want: stringtest.File(
				"# ==========================================",
				"# Web vars",
				"# ==========================================",
				"[web:vars]",
				"http_port=80",
				"tier=frontend",
				"retries=3",
				"extra_var=true",
				"",
				"# ==========================================",
				"# orphan",
				"# ==========================================",
				"[orphan:vars]",
				"a=1",
			),
		},
		"optional sections comment out below the banner": {
			doc: `[
				{"key": "global_vars", "multi_type": ["object"], "override_hint": true,
					"default_value": {"debug": true}},
				{"key": "groups", "multi_type": ["object"], "required": true, "children": [
					{"key": "canary", "multi_type": ["list"], "item_multi_type": ["object"], "default_value": ["c1"]}
				]}
			]`,
			opts: hintOpts(),
			want: stringtest.File(
				"# ==========================================",
				"# global_vars",
				"# ==========================================",
				"# [all:vars] # <=== [Override]",
				"# debug=true",
				"",
				"# ==========================================",
				"# canary",
				"# ==========================================",
				"# [canary]",
				"# c1",
			),
		},
		"sections emit in fixed order regardless of document order": {
			doc: `[
				{"key": "group_vars", "multi_type": ["object"], "required": true, "children": [
					{"key": "web", "multi_type": ["object"], "required": true, "default_value": {"a": 1}}
				]},
				{"key": "aggregations", "multi_type": ["object"], "required": true, "children": [
					{"key": "all-nodes", "multi_type": ["list"], "item_multi_type": ["object"], "required": true, "default_value": ["web"]}
				]},
				{"key": "groups", "multi_type": ["object"], "required": true, "children": [
					{"key": "web", "multi_type": ["list"], "item_multi_type": ["object"], "required": true, "default_value": ["w1"]}
				]},
				{"key": "global_vars", "multi_type": ["object"], "required": true, "default_value": {"env": "prod"}}
			]`,
			want: stringtest.File(
				"# ==========================================",
				"# global_vars",
				"# ==========================================",
				"[all:vars]",
				"env=prod",
				"",
				"# ==========================================",
				"# web",
				"# ==========================================",
				"[web]",
				"w1",
				"",
				"# ==========================================",
				"# all-nodes",
				"# ==========================================",
				"[all-nodes:children]",
				"web",
				"",
				"# ==========================================",
				"# web",
				"# ==========================================",
				"[web:vars]",
				"a=1",
			),
		},
		"disabled roots emit nothing": {
			doc: `[
				{"key": "global_vars", "multi_type": ["object"]},
				{"key": "groups", "multi_type": ["object"], "required": true, "children": [
					{"key": "web", "multi_type": ["list"], "item_multi_type": ["object"], "required": true, "default_value": ["w1"]}
				]}
			]`,
			want: stringtest.File(
				"# ==========================================",
				"# web",
				"# ==========================================",
				"[web]",
				"w1",
			),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lines := render.INI(mustParse(t, tc.doc), tc.opts)
			assert.Equal(t, tc.want, render.Text(lines))
		})
	}
}
