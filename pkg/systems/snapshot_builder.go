package systems

import (
	"math"
	"math/rand"
	"sort"

	"github.com/gonewx/frontline/pkg/components"
	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/game"
)

// crosshairDepth 准星所在的子弹深度（占远裁剪面的比例）
const crosshairDepth = 0.4

// BuildSnapshot 把世界状态投影为一帧只读渲染数据
//
// 不修改 WorldState。震动偏移取自 fx（纯装饰随机源），
// 这样渲染不会消耗模拟用的随机数，种子固定时模拟结果可复现。
// fx 为 nil 时不产生震动偏移。
func BuildSnapshot(w *game.WorldState, vp Viewport, fx *rand.Rand) *components.Snapshot {
	cfg := w.Config
	snap := &components.Snapshot{
		Width:    vp.Width,
		Height:   vp.Height,
		CenterX:  vp.CenterX,
		HorizonY: vp.HorizonY,
	}

	if w.Shake > 0 && fx != nil {
		snap.ShakeX = (fx.Float64()*2 - 1) * w.Shake
		snap.ShakeY = (fx.Float64()*2 - 1) * w.Shake
	}

	snap.Layers = projectLayers(w.Layers, w.ViewAngle, vp)

	// 敌人：由远到近排序，近处的后绘制
	snap.Enemies = make([]components.EnemySprite, 0, len(w.Enemies))
	for _, e := range w.Enemies {
		x, y, scale := ProjectEnemy(e, w.ViewAngle, vp, cfg.Projection)
		_, body := EnemyPalette(cfg, e.Type)
		snap.Enemies = append(snap.Enemies, components.EnemySprite{
			ID:    e.ID,
			Type:  e.Type,
			X:     x,
			Y:     y,
			Size:  EnemySize(e.Type, scale, cfg),
			Scale: scale,
			Z:     e.Z,
			Body:  body,
		})
	}
	sort.SliceStable(snap.Enemies, func(i, j int) bool { return snap.Enemies[i].Z < snap.Enemies[j].Z })

	snap.Bullets = make([]components.BulletSprite, 0, len(w.Bullets))
	for _, b := range w.Bullets {
		x, y := ProjectBullet(b, vp, cfg.Projection, cfg.Bullet.FarClip)
		tx, ty := projectBulletAt(b.OriginX, b.PrevZ, vp, cfg.Projection, cfg.Bullet.FarClip)
		snap.Bullets = append(snap.Bullets, components.BulletSprite{
			X:      x,
			Y:      y,
			TailX:  tx,
			TailY:  ty,
			Radius: BulletRadius(b, cfg.Bullet.FarClip),
			Z:      b.Z,
		})
	}

	snap.Particles = make([]components.ParticleSprite, 0, len(w.Particles))
	for i := range w.Particles {
		p := &w.Particles[i]
		x, y := vp.Clamp(p.X, p.Y)
		snap.Particles = append(snap.Particles, components.ParticleSprite{
			X:     x,
			Y:     y,
			Color: p.Color,
			Alpha: p.Alpha(),
		})
	}

	snap.Radar = radarBlips(w)

	mx, my := MuzzlePosition(w.Player, vp)
	cx, cy := projectBulletAt(mx, crosshairDepth*cfg.Bullet.FarClip, vp, cfg.Projection, cfg.Bullet.FarClip)
	snap.HUD = components.HUDState{
		Score:      w.Score,
		Kills:      w.Kills,
		Health:     w.Player.Health,
		MaxHealth:  cfg.Player.MaxHealth,
		Heading:    w.ViewAngle,
		Paused:     w.Paused,
		GameOver:   w.GameOver,
		CrosshairX: cx,
		CrosshairY: cy,
		MuzzleX:    mx,
		MuzzleY:    my,
		Enemies:    len(w.Enemies),
	}
	return snap
}

// projectLayers 视差背景投影
//
// 每层按 Parallax（每度视角移动的屏幕宽度百分比）整体平移，
// 在 [0,1) 环带上回绕，因此转动视角时山峰不会耗尽。
func projectLayers(layers []components.BackgroundLayer, viewAngle float64, vp Viewport) []components.LayerSprites {
	w := float64(vp.Width)
	out := make([]components.LayerSprites, 0, len(layers))

	for _, layer := range layers {
		offset := -viewAngle * layer.Parallax / 100
		ls := components.LayerSprites{
			Kind:   layer.Kind,
			Shapes: make([]components.ShapeSprite, 0, len(layer.Shapes)),
		}
		for _, s := range layer.Shapes {
			x := wrapUnit(s.X+offset) * w
			if layer.Kind == components.LayerStars {
				ls.Shapes = append(ls.Shapes, components.ShapeSprite{
					X:      x,
					BaseY:  s.Height * vp.HorizonY,
					Height: 0,
					Width:  s.Width,
				})
				continue
			}
			ls.Shapes = append(ls.Shapes, components.ShapeSprite{
				X:      x,
				BaseY:  vp.HorizonY,
				Height: s.Height * vp.HorizonY,
				Width:  s.Width * w,
			})
		}
		out = append(out, ls)
	}
	return out
}

// radarBlips 把敌人位置换算为雷达坐标
// DX 为相对当前视线的横向偏移，Dist 为距突破线的剩余比例
func radarBlips(w *game.WorldState) []components.RadarBlip {
	cfg := w.Config
	span := cfg.Enemy.BreachDepth - cfg.Enemy.SpawnDepth

	blips := make([]components.RadarBlip, 0, len(w.Enemies))
	for _, e := range w.Enemies {
		dist := 0.0
		if span > 0 {
			dist = clamp(1-(e.Z-cfg.Enemy.SpawnDepth)/span, 0, 1)
		}
		blips = append(blips, components.RadarBlip{
			DX:   clamp((e.X-w.ViewAngle*cfg.Projection.AngleToOffset)/config.RadarRange, -1, 1),
			Dist: dist,
			Type: e.Type,
		})
	}
	return blips
}

func wrapUnit(v float64) float64 {
	v = math.Mod(v, 1)
	if v < 0 {
		v++
	}
	return v
}
