// Package roster 维护座位身份到展示资料的映射.
//
// 座位身份是平台分配的不透明字符串, 引擎和存储层只认它;
// 展示名和头像只在网关下发 hello 与快照装饰时用到.
package roster

import (
	"strings"
	"sync"
)

// Profile 座位的展示资料.
type Profile struct {
	Seat   string `json:"seat"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Service 资料查询. 未注册的座位返回合成的默认资料, 永不失败.
type Service interface {
	Lookup(seat string) Profile
	Register(p Profile)
}

// 默认头像池, 按座位串散列选取, 同一座位稳定.
var defaultAvatars = []string{
	"cardinal", "lotus", "bamboo", "ivory", "jade", "amber", "onyx", "pearl",
}

// Memory 进程内资料表.
type Memory struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewMemory 创建空资料表.
func NewMemory() *Memory {
	return &Memory{profiles: make(map[string]Profile)}
}

func (m *Memory) Lookup(seat string) Profile {
	m.mu.RLock()
	p, ok := m.profiles[seat]
	m.mu.RUnlock()
	if ok {
		return p
	}
	return synthesize(seat)
}

func (m *Memory) Register(p Profile) {
	if p.Seat == "" {
		return
	}
	if p.Name == "" {
		p.Name = synthesize(p.Seat).Name
	}
	m.mu.Lock()
	m.profiles[p.Seat] = p
	m.mu.Unlock()
}

// synthesize 从座位串合成稳定的默认资料: guest-后六位.
func synthesize(seat string) Profile {
	suffix := strings.ReplaceAll(seat, "-", "")
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	if suffix == "" {
		suffix = "000000"
	}
	var h uint32
	for _, c := range seat {
		h = h*31 + uint32(c)
	}
	return Profile{
		Seat:   seat,
		Name:   "guest-" + suffix,
		Avatar: defaultAvatars[h%uint32(len(defaultAvatars))],
	}
}
