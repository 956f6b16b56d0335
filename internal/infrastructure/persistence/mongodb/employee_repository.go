package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"skill-ledger/internal/domain/employee"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EmployeeRepository struct {
	coll *mongo.Collection
}

func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{coll: db.Database().Collection(collEmployees)}
}

func (r *EmployeeRepository) Create(ctx context.Context, e employee.Employee) error {
	if e.Skills == nil {
		e.Skills = []employee.Skill{}
	}
	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", employee.ErrDuplicate, err)
		}
		return err
	}
	return nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	var e employee.Employee
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return employee.Employee{}, employee.ErrNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *EmployeeRepository) IDByEmail(ctx context.Context, email string) (int64, error) {
	var row struct {
		ID int64 `bson:"_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	if err := r.coll.FindOne(ctx, bson.M{"email": email}, opts).Decode(&row); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, employee.ErrNotFound
		}
		return 0, err
	}
	return row.ID, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := make([]employee.Employee, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *EmployeeRepository) ListIDs(ctx context.Context) ([]int64, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID int64 `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *EmployeeRepository) SetVerified(ctx context.Context, id int64, verified int) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"verified": verified}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return employee.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) AppendSkill(ctx context.Context, id int64, s employee.Skill) error {
	if s.Comments == nil {
		s.Comments = []employee.Comment{}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"skills": s}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return employee.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) AppendComment(ctx context.Context, id int64, ref employee.SkillRef, c employee.Comment) (employee.Skill, error) {
	filter, path, err := skillTarget(id, ref, nil)
	if err != nil {
		return employee.Skill{}, err
	}
	update := bson.M{"$push": bson.M{path + ".comments": c}}
	s, err := r.updateSkill(ctx, id, ref, filter, update)
	if errors.Is(err, errNoMatch) {
		return employee.Skill{}, employee.ErrSkillNotFound
	}
	return s, err
}

func (r *EmployeeRepository) ConfirmSkill(ctx context.Context, id int64, ref employee.SkillRef, at time.Time) (employee.Skill, error) {
	filter, path, err := skillTarget(id, ref, bson.M{"confirmed": false})
	if err != nil {
		return employee.Skill{}, err
	}
	update := bson.M{"$set": bson.M{
		path + ".confirmed":   true,
		path + ".confirmedAt": at,
	}}

	s, err := r.updateSkill(ctx, id, ref, filter, update)
	if errors.Is(err, errNoMatch) {
		if s.Confirmed {
			return employee.Skill{}, employee.ErrSkillAlreadyConfirmed
		}
		return employee.Skill{}, employee.ErrSkillNotFound
	}
	return s, err
}

func (r *EmployeeRepository) GetSkill(ctx context.Context, id int64, ref employee.SkillRef) (employee.Skill, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return employee.Skill{}, err
	}
	s, _, err := e.FindSkill(ref)
	return s, err
}

func (r *EmployeeRepository) SetLedgerStatus(ctx context.Context, id int64, uid string, status string, ledgerErr string) error {
	filter := bson.M{"_id": id, "skills.uid": uid}
	update := bson.M{"$set": bson.M{
		"skills.$.ledgerStatus": status,
		"skills.$.ledgerError":  ledgerErr,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return employee.ErrSkillNotFound
	}
	return nil
}

func (r *EmployeeRepository) ListPendingByManager(ctx context.Context, managerID int64) ([]employee.Employee, error) {
	filter := bson.M{"skills": bson.M{"$elemMatch": bson.M{"managerId": managerID, "confirmed": false}}}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := make([]employee.Employee, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var errNoMatch = errors.New("no matching skill")

// skillTarget builds a filter that matches the referenced skill (plus any
// extra conditions on it) and the update path prefix for that element.
func skillTarget(id int64, ref employee.SkillRef, cond bson.M) (bson.M, string, error) {
	if ref.UID != "" {
		elem := bson.M{"uid": ref.UID}
		for k, v := range cond {
			elem[k] = v
		}
		return bson.M{"_id": id, "skills": bson.M{"$elemMatch": elem}}, "skills.$", nil
	}
	if ref.Index == nil || *ref.Index < 0 {
		return nil, "", employee.ErrSkillNotFound
	}

	path := "skills." + strconv.Itoa(*ref.Index)
	filter := bson.M{"_id": id, path: bson.M{"$exists": true}}
	for k, v := range cond {
		filter[path+"."+k] = v
	}
	return filter, path, nil
}

// updateSkill applies update and returns the referenced skill as stored
// afterwards. A filter miss on an existing employee with a present skill is
// reported as errNoMatch along with the skill as currently stored.
func (r *EmployeeRepository) updateSkill(ctx context.Context, id int64, ref employee.SkillRef, filter, update bson.M) (employee.Skill, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e employee.Employee
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&e)
	if err == nil {
		s, _, err := e.FindSkill(ref)
		return s, err
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return employee.Skill{}, err
	}

	cur, err := r.GetSkill(ctx, id, ref)
	if err != nil {
		return employee.Skill{}, err
	}
	return cur, errNoMatch
}
