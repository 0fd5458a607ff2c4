package ecs

import (
	"reflect"
	"testing"
)

type testPlatform struct {
	Index int
}

type testBody struct {
	Height float64
}

func TestEntityIDsStartAtOne(t *testing.T) {
	em := NewEntityManager()
	for want := EntityID(1); want <= 3; want++ {
		if got := em.CreateEntity(); got != want {
			t.Errorf("CreateEntity() = %d, want %d", got, want)
		}
	}
	if em.EntityCount() != 3 {
		t.Errorf("EntityCount() = %d, want 3", em.EntityCount())
	}
}

func TestComponentLifecycle(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testPlatform{Index: 7})
	if !HasComponent[*testPlatform](em, id) {
		t.Fatal("expected platform component")
	}
	if HasComponent[*testBody](em, id) {
		t.Error("body component should not exist")
	}

	p, ok := GetComponent[*testPlatform](em, id)
	if !ok || p.Index != 7 {
		t.Fatalf("GetComponent = %+v, %v", p, ok)
	}

	// 非泛型 API 看到的是同一个组件
	raw, ok := em.GetComponent(id, reflect.TypeOf(&testPlatform{}))
	if !ok || raw.(*testPlatform) != p {
		t.Error("reflect API should return the same pointer")
	}

	// 再次添加同类型组件会覆盖旧值
	AddComponent(em, id, &testPlatform{Index: 8})
	if p, _ := GetComponent[*testPlatform](em, id); p.Index != 8 {
		t.Errorf("Index = %d, want 8 after replacing the component", p.Index)
	}
}

func TestAddComponentToMissingEntityIsIgnored(t *testing.T) {
	em := NewEntityManager()
	AddComponent(em, 42, &testPlatform{})
	AddComponent(em, 43, &testBody{})

	if em.EntityCount() != 0 {
		t.Errorf("EntityCount() = %d, want 0", em.EntityCount())
	}
	if HasComponent[*testPlatform](em, 42) {
		t.Error("missing entity must not gain components")
	}
}

func TestDestroyIsDeferred(t *testing.T) {
	em := NewEntityManager()
	a := em.CreateEntity()
	b := em.CreateEntity()
	AddComponent(em, a, &testPlatform{})
	AddComponent(em, b, &testPlatform{})

	em.DestroyEntity(a)
	if !em.IsAlive(a) {
		t.Fatal("entity should stay alive until RemoveMarkedEntities")
	}

	em.RemoveMarkedEntities()
	if em.IsAlive(a) {
		t.Error("entity should be removed")
	}
	if !em.IsAlive(b) {
		t.Error("unmarked entity should survive")
	}

	// 标记列表已清空，再次清理没有副作用
	em.RemoveMarkedEntities()
	if em.EntityCount() != 1 {
		t.Errorf("EntityCount() = %d, want 1", em.EntityCount())
	}
}

func TestDestroyedIDsAreNotReused(t *testing.T) {
	em := NewEntityManager()
	old := em.CreateEntity()
	AddComponent(em, old, &testPlatform{Index: 1})
	em.DestroyEntity(old)
	em.RemoveMarkedEntities()

	fresh := em.CreateEntity()
	AddComponent(em, fresh, &testPlatform{Index: 2})
	if fresh == old {
		t.Fatalf("ID %d reused", old)
	}
	if _, ok := GetComponent[*testPlatform](em, old); ok {
		t.Error("stale ID must not resolve to the new entity")
	}
}

func TestGetEntitiesWith(t *testing.T) {
	em := NewEntityManager()
	var both, platformOnly []EntityID
	for i := 0; i < 6; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testPlatform{Index: i})
		if i%2 == 0 {
			AddComponent(em, id, &testBody{})
			both = append(both, id)
		} else {
			platformOnly = append(platformOnly, id)
		}
	}
	em.CreateEntity()

	tests := []struct {
		name string
		got  []EntityID
		want []EntityID
	}{
		{"platform", em.GetEntitiesWith(reflect.TypeOf(&testPlatform{})), interleave(both, platformOnly)},
		{"platform+body", GetEntitiesWith2[*testPlatform, *testBody](em), both},
		{"none", em.GetEntitiesWith(), []EntityID{1, 2, 3, 4, 5, 6, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("got %v, want %v (ascending)", tt.got, tt.want)
			}
		})
	}
}

// interleave 按 ID 升序合并两个有序列表
func interleave(a, b []EntityID) []EntityID {
	out := make([]EntityID, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		if j >= len(b) || (i < len(a) && a[i] < b[j]) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	return out
}
