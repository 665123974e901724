package input

import (
	"context"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v2"

	"github.com/tsinghua-fib-lab/trucksim-oss/entity/collision"
	"github.com/tsinghua-fib-lab/trucksim-oss/utils"
	"github.com/tsinghua-fib-lab/trucksim-oss/utils/config"
)

// Input 输入数据
// 功能：存储评估所需的全部碰撞场景
// 说明：内联场景与外部数据源（YAML文件或MongoDB）合并后的结果
type Input struct {
	Scenarios []config.CollisionScenario
}

// scenarioFile 场景YAML文件的根结构
type scenarioFile struct {
	Scenarios []config.CollisionScenario `yaml:"scenarios"`
}

// Init 加载数据
// 功能：根据配置初始化并加载所有碰撞场景
// 参数：c-配置对象
// 返回：加载完成的输入数据指针
// 算法说明：
// 1. 收集配置内联的场景
// 2. 外部数据源加载：
//   - 文件加载：从YAML文件加载场景（优先级高于MongoDB）
//   - 数据库加载：从MongoDB集合加载场景
//
// 3. 数据验证：场景必须具名且名字唯一，场景字段必须可解析
// 4. 场景筛选：只保留scenario_names指定的场景（为空则全部保留）
// 说明：这是数据加载的主入口，非法场景在这里被拒绝而不是进入评估
func Init(c config.Config) (res *Input) {
	res = &Input{
		Scenarios: make([]config.CollisionScenario, 0, len(c.Scenarios)),
	}
	res.Scenarios = append(res.Scenarios, c.Scenarios...)

	if p := c.Input.Scenarios; p != nil {
		if p.File != "" {
			res.Scenarios = append(res.Scenarios, loadFromFile(p.File)...)
		} else {
			res.Scenarios = append(res.Scenarios, loadFromMongo(c.Input.URI, *p)...)
		}
	}

	// 名字唯一性检查
	byName := make(map[string]config.CollisionScenario, len(res.Scenarios))
	for _, s := range res.Scenarios {
		if s.Name == "" {
			log.Panicf("scenario without name: %+v", s)
		}
		if _, ok := byName[s.Name]; ok {
			log.Panicf("scenarios have duplicated name %q, please check data", s.Name)
		}
		if _, err := ToScenario(s); err != nil {
			log.Panicf("bad scenario %q: %v", s.Name, err)
		}
		byName[s.Name] = s
	}

	// 场景筛选
	okData, failedNames := utils.Find(byName, res.Scenarios, c.Input.ScenarioNames)
	for _, name := range failedNames {
		log.Errorf("scenario %q not found in input, ignore it", name)
	}
	res.Scenarios = okData
	log.Infof("loaded %d collision scenarios", len(res.Scenarios))
	return
}

// loadFromFile 从YAML文件加载场景
func loadFromFile(path string) []config.CollisionScenario {
	file, err := os.ReadFile(path)
	if err != nil {
		log.Panicf("failed to load scenarios from file: %v", err)
	}
	var f scenarioFile
	if err := yaml.UnmarshalStrict(file, &f); err != nil {
		log.Panicf("failed to parse scenario file %s: %v", path, err)
	}
	return f.Scenarios
}

// loadFromMongo 从MongoDB集合加载场景
// 功能：连接数据库并将集合内全部bson文档解码为场景
// 参数：uri-连接字符串，p-数据库与集合名
// 返回：场景列表
func loadFromMongo(uri string, p config.InputPath) []config.CollisionScenario {
	if uri == "" {
		log.Panic("scenario input requires either a file or a mongo uri")
	}
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Panicf("failed to connect to mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	log.Infof("start fetching from %s.%s", p.DB, p.Col)
	cur, err := client.Database(p.DB).Collection(p.Col).Find(ctx, bson.D{})
	if err != nil {
		log.Panicf("failed to query %s.%s: %v", p.DB, p.Col, err)
	}
	var docs []config.CollisionScenario
	if err := cur.All(ctx, &docs); err != nil {
		log.Panicf("failed to decode scenarios from %s.%s: %v", p.DB, p.Col, err)
	}
	log.Infof("finish fetching from %s.%s", p.DB, p.Col)
	return docs
}

// ToScenario 将场景配置转换为评估器输入
// 功能：解析枚举字段并构造collision.Scenario
// 返回：评估器场景和错误信息
func ToScenario(doc config.CollisionScenario) (collision.Scenario, error) {
	var s collision.Scenario
	var err error
	if s.TypeTarget, err = collision.ParseCollisionType(doc.TypeTarget); err != nil {
		return collision.Scenario{}, err
	}
	if s.TypeBullet, err = collision.ParseCollisionType(doc.TypeBullet); err != nil {
		return collision.Scenario{}, err
	}
	if s.Bound, err = collision.ParseBoundType(doc.Bound); err != nil {
		return collision.Scenario{}, err
	}
	s.SpeedTarget = doc.SpeedTarget
	s.SpeedBullet = doc.SpeedBullet
	s.MassTarget = doc.MassTarget
	s.MassBullet = doc.MassBullet
	return s, nil
}
