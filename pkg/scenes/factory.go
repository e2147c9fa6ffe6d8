package scenes

import (
	"fmt"

	"github.com/gonewx/frontline/pkg/game"
)

// NewSceneFactory 返回按阶段创建场景的工厂
// PhaseExit 没有场景，由宿主直接结束主循环
func NewSceneFactory(host Host) game.SceneFactory {
	return func(phase game.Phase) (game.Scene, error) {
		switch phase {
		case game.PhaseMenu:
			return NewMenuScene(host), nil
		case game.PhaseLoading:
			return NewLoadingScene(host), nil
		case game.PhaseBattle:
			s, err := NewBattleScene(host)
			if err != nil {
				return nil, err
			}
			return s, nil
		case game.PhaseKnowledgeCheck:
			return NewQuizScene(host), nil
		case game.PhaseResults:
			return NewResultsScene(host), nil
		}
		return nil, fmt.Errorf("no scene for phase %s", phase)
	}
}
