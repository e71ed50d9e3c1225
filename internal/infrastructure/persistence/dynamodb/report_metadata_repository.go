package dynamodb

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dreschagin/vibration-diagnostics/internal/application/port"
)

const (
	defaultListLimit = 24
	maxListLimit     = 100

	reportMetadataGSI1 = "GSI1"

	attrPK           = "PK"
	attrSK           = "SK"
	attrGSI1PK       = "GSI1PK"
	attrGSI1SK       = "GSI1SK"
	attrEquipmentID  = "equipment_id"
	attrAssessmentID = "assessment_id"
	attrHealthGrade  = "health_grade"
	attrHealthScore  = "health_score"
	attrS3Key        = "s3_key"
	attrURL          = "url"
	attrContentType  = "content_type"
	attrSizeBytes    = "size_bytes"
	attrGeneratedAt  = "generated_at"
	attrCreatedAt    = "created_at"
	attrExpiresAt    = "expires_at"
)

var equipmentIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

type Config struct {
	TableName       string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	StrongReads     bool
}

type ReportMetadataRepository struct {
	client      *dynamodb.Client
	tableName   string
	strongReads bool
}

type cursorMode string

const (
	cursorModeEquipment cursorMode = "equipment"
	cursorModeGrade     cursorMode = "grade"
)

type cursorPayload struct {
	Mode        cursorMode             `json:"mode"`
	EquipmentID string                 `json:"equipment_id"`
	HealthGrade string                 `json:"health_grade,omitempty"`
	FromMS      int64                  `json:"from_ms,omitempty"`
	ToMS        int64                  `json:"to_ms,omitempty"`
	Key         map[string]cursorValue `json:"key"`
}

type cursorValue struct {
	S string `json:"s,omitempty"`
	N string `json:"n,omitempty"`
}

func NewReportMetadataRepository(ctx context.Context, cfg Config) (*ReportMetadataRepository, error) {
	if strings.TrimSpace(cfg.TableName) == "" {
		return nil, fmt.Errorf("dynamodb table name is required")
	}

	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = "us-east-1"
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	accessKeyID := strings.TrimSpace(cfg.AccessKeyID)
	secretAccessKey := strings.TrimSpace(cfg.SecretAccessKey)
	if accessKeyID != "" || secretAccessKey != "" {
		if accessKeyID == "" || secretAccessKey == "" {
			return nil, fmt.Errorf("both dynamodb access key id and secret access key are required for static credentials")
		}
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config for dynamodb: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(options *dynamodb.Options) {
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			options.BaseEndpoint = &endpoint
		}
	})

	return &ReportMetadataRepository{
		client:      client,
		tableName:   strings.TrimSpace(cfg.TableName),
		strongReads: cfg.StrongReads,
	}, nil
}

func (r *ReportMetadataRepository) Put(ctx context.Context, record port.ReportMetadata) error {
	item, err := r.toItem(record)
	if err != nil {
		return err
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.tableName,
		Item:      item,
	}); err != nil {
		return fmt.Errorf("dynamodb put failed: %w", err)
	}

	return nil
}

func (r *ReportMetadataRepository) ListByEquipment(
	ctx context.Context,
	query port.ReportListQuery,
) (port.ReportListPage, error) {
	equipmentID := strings.TrimSpace(query.EquipmentID)
	if !equipmentIDPattern.MatchString(equipmentID) {
		return port.ReportListPage{}, fmt.Errorf("invalid equipment_id")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	healthGrade := strings.TrimSpace(query.HealthGrade)
	fromMS, toMS, hasRange, err := normalizeTimeRange(query.From, query.To)
	if err != nil {
		return port.ReportListPage{}, err
	}

	mode := cursorModeEquipment
	if healthGrade != "" {
		mode = cursorModeGrade
	}

	input := &dynamodb.QueryInput{
		TableName:                 &r.tableName,
		Limit:                     int32Pointer(int32(limit)),
		ScanIndexForward:          boolPointer(false),
		ConsistentRead:            boolPointer(r.strongReads),
		ExpressionAttributeNames:  map[string]string{},
		ExpressionAttributeValues: map[string]types.AttributeValue{},
	}

	if mode == cursorModeEquipment {
		pk := buildPK(equipmentID)
		input.ExpressionAttributeNames["#pk"] = attrPK
		input.ExpressionAttributeValues[":pk"] = &types.AttributeValueMemberS{Value: pk}
		keyCondition := "#pk = :pk"
		if hasRange {
			input.ExpressionAttributeNames["#sk"] = attrSK
			input.ExpressionAttributeValues[":from"] = &types.AttributeValueMemberS{Value: buildSortLowerBound(fromMS)}
			input.ExpressionAttributeValues[":to"] = &types.AttributeValueMemberS{Value: buildSortUpperBound(toMS)}
			keyCondition += " AND #sk BETWEEN :from AND :to"
		}
		input.KeyConditionExpression = &keyCondition
	} else {
		gsiPK := buildGSI1PK(equipmentID, healthGrade)
		input.IndexName = stringPointer(reportMetadataGSI1)
		input.ConsistentRead = nil
		input.ExpressionAttributeNames["#gsi1pk"] = attrGSI1PK
		input.ExpressionAttributeValues[":pk"] = &types.AttributeValueMemberS{Value: gsiPK}
		keyCondition := "#gsi1pk = :pk"
		if hasRange {
			input.ExpressionAttributeNames["#gsi1sk"] = attrGSI1SK
			input.ExpressionAttributeValues[":from"] = &types.AttributeValueMemberS{Value: buildSortLowerBound(fromMS)}
			input.ExpressionAttributeValues[":to"] = &types.AttributeValueMemberS{Value: buildSortUpperBound(toMS)}
			keyCondition += " AND #gsi1sk BETWEEN :from AND :to"
		}
		input.KeyConditionExpression = &keyCondition
	}

	if strings.TrimSpace(query.Cursor) != "" {
		exclusiveStartKey, err := decodeCursor(query.Cursor, mode, equipmentID, healthGrade, fromMS, toMS)
		if err != nil {
			return port.ReportListPage{}, err
		}
		input.ExclusiveStartKey = exclusiveStartKey
	}

	output, err := r.client.Query(ctx, input)
	if err != nil {
		return port.ReportListPage{}, fmt.Errorf("dynamodb query failed: %w", err)
	}

	items := make([]port.ReportMetadata, 0, len(output.Items))
	for _, raw := range output.Items {
		item, err := fromItem(raw)
		if err != nil {
			return port.ReportListPage{}, err
		}
		items = append(items, item)
	}

	nextCursor := ""
	if len(output.LastEvaluatedKey) > 0 {
		nextCursor, err = encodeCursor(output.LastEvaluatedKey, mode, equipmentID, healthGrade, fromMS, toMS)
		if err != nil {
			return port.ReportListPage{}, err
		}
	}

	return port.ReportListPage{
		Items:      items,
		NextCursor: nextCursor,
	}, nil
}

func (r *ReportMetadataRepository) toItem(record port.ReportMetadata) (map[string]types.AttributeValue, error) {
	equipmentID := strings.TrimSpace(record.EquipmentID)
	assessmentID := strings.TrimSpace(record.AssessmentID)
	s3Key := strings.TrimSpace(record.S3Key)
	healthGrade := strings.TrimSpace(record.HealthGrade)
	if !equipmentIDPattern.MatchString(equipmentID) {
		return nil, fmt.Errorf("invalid equipment_id")
	}
	if assessmentID == "" {
		return nil, fmt.Errorf("assessment_id is required")
	}
	if s3Key == "" {
		return nil, fmt.Errorf("s3_key is required")
	}
	if healthGrade == "" {
		return nil, fmt.Errorf("health_grade is required")
	}

	generatedAt := record.GeneratedAt.UTC()
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	generatedAtMS := generatedAt.UnixMilli()
	createdAtMS := time.Now().UTC().UnixMilli()

	item := map[string]types.AttributeValue{
		attrPK:           &types.AttributeValueMemberS{Value: buildPK(equipmentID)},
		attrSK:           &types.AttributeValueMemberS{Value: buildSK(generatedAtMS, healthGrade, s3Key)},
		attrGSI1PK:       &types.AttributeValueMemberS{Value: buildGSI1PK(equipmentID, healthGrade)},
		attrGSI1SK:       &types.AttributeValueMemberS{Value: buildGSI1SK(generatedAtMS, s3Key)},
		attrEquipmentID:  &types.AttributeValueMemberS{Value: equipmentID},
		attrAssessmentID: &types.AttributeValueMemberS{Value: assessmentID},
		attrHealthGrade:  &types.AttributeValueMemberS{Value: healthGrade},
		attrHealthScore:  &types.AttributeValueMemberN{Value: strconv.FormatFloat(record.HealthScore, 'f', -1, 64)},
		attrS3Key:        &types.AttributeValueMemberS{Value: s3Key},
		attrGeneratedAt:  &types.AttributeValueMemberN{Value: strconv.FormatInt(generatedAtMS, 10)},
		attrCreatedAt:    &types.AttributeValueMemberN{Value: strconv.FormatInt(createdAtMS, 10)},
	}

	if url := strings.TrimSpace(record.URL); url != "" {
		item[attrURL] = &types.AttributeValueMemberS{Value: url}
	}
	if contentType := strings.TrimSpace(record.ContentType); contentType != "" {
		item[attrContentType] = &types.AttributeValueMemberS{Value: contentType}
	}
	if record.SizeBytes > 0 {
		item[attrSizeBytes] = &types.AttributeValueMemberN{Value: strconv.FormatInt(record.SizeBytes, 10)}
	}
	if !record.ExpiresAt.IsZero() {
		item[attrExpiresAt] = &types.AttributeValueMemberN{Value: strconv.FormatInt(record.ExpiresAt.UTC().Unix(), 10)}
	}

	return item, nil
}

func fromItem(item map[string]types.AttributeValue) (port.ReportMetadata, error) {
	equipmentID, err := attrString(item, attrEquipmentID)
	if err != nil {
		return port.ReportMetadata{}, err
	}
	assessmentID, err := attrString(item, attrAssessmentID)
	if err != nil {
		return port.ReportMetadata{}, err
	}
	healthGrade, err := attrString(item, attrHealthGrade)
	if err != nil {
		return port.ReportMetadata{}, err
	}
	s3Key, err := attrString(item, attrS3Key)
	if err != nil {
		return port.ReportMetadata{}, err
	}

	generatedAtMS, err := attrInt64(item, attrGeneratedAt)
	if err != nil {
		return port.ReportMetadata{}, err
	}

	record := port.ReportMetadata{
		EquipmentID:  equipmentID,
		AssessmentID: assessmentID,
		HealthGrade:  healthGrade,
		HealthScore:  optionalFloat64(item, attrHealthScore),
		S3Key:        s3Key,
		URL:          optionalString(item, attrURL),
		ContentType:  optionalString(item, attrContentType),
		SizeBytes:    optionalInt64(item, attrSizeBytes),
		GeneratedAt:  time.UnixMilli(generatedAtMS).UTC(),
	}

	expiresAtSeconds := optionalInt64(item, attrExpiresAt)
	if expiresAtSeconds > 0 {
		record.ExpiresAt = time.Unix(expiresAtSeconds, 0).UTC()
	}

	return record, nil
}

func normalizeTimeRange(from, to time.Time) (int64, int64, bool, error) {
	from = from.UTC()
	to = to.UTC()
	if from.IsZero() && to.IsZero() {
		return 0, math.MaxInt64, false, nil
	}

	fromMS := int64(0)
	toMS := int64(math.MaxInt64)
	if !from.IsZero() {
		fromMS = from.UnixMilli()
	}
	if !to.IsZero() {
		toMS = to.UnixMilli()
	}

	if fromMS > toMS {
		return 0, 0, false, fmt.Errorf("from must be less than or equal to to")
	}

	return fromMS, toMS, true, nil
}

func buildPK(equipmentID string) string {
	return "EQUIPMENT#" + equipmentID
}

func buildSK(generatedAtMS int64, healthGrade, s3Key string) string {
	return fmt.Sprintf("TS#%013d#GRADE#%s#KEY#%s", generatedAtMS, healthGrade, objectHash(s3Key))
}

func buildGSI1PK(equipmentID, healthGrade string) string {
	return fmt.Sprintf("EQUIPMENT#%s#GRADE#%s", equipmentID, healthGrade)
}

func buildGSI1SK(generatedAtMS int64, s3Key string) string {
	return fmt.Sprintf("TS#%013d#KEY#%s", generatedAtMS, objectHash(s3Key))
}

func buildSortLowerBound(tsMS int64) string {
	return fmt.Sprintf("TS#%013d#", tsMS)
}

func buildSortUpperBound(tsMS int64) string {
	return fmt.Sprintf("TS#%013d#~", tsMS)
}

func objectHash(key string) string {
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func encodeCursor(
	key map[string]types.AttributeValue,
	mode cursorMode,
	equipmentID, healthGrade string,
	fromMS, toMS int64,
) (string, error) {
	values := make(map[string]cursorValue, len(key))
	for attributeName, raw := range key {
		switch value := raw.(type) {
		case *types.AttributeValueMemberS:
			values[attributeName] = cursorValue{S: value.Value}
		case *types.AttributeValueMemberN:
			values[attributeName] = cursorValue{N: value.Value}
		default:
			return "", fmt.Errorf("unsupported cursor attribute type for %s", attributeName)
		}
	}

	payload := cursorPayload{
		Mode:        mode,
		EquipmentID: equipmentID,
		HealthGrade: healthGrade,
		FromMS:      fromMS,
		ToMS:        toMS,
		Key:         values,
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(serialized), nil
}

func decodeCursor(
	cursor string,
	mode cursorMode,
	equipmentID, healthGrade string,
	fromMS, toMS int64,
) (map[string]types.AttributeValue, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor")
	}

	var payload cursorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("invalid cursor")
	}

	if payload.Mode != mode ||
		payload.EquipmentID != equipmentID ||
		payload.HealthGrade != healthGrade ||
		payload.FromMS != fromMS ||
		payload.ToMS != toMS {
		return nil, fmt.Errorf("cursor does not match query filters")
	}

	key := make(map[string]types.AttributeValue, len(payload.Key))
	for attributeName, value := range payload.Key {
		if value.S != "" {
			key[attributeName] = &types.AttributeValueMemberS{Value: value.S}
			continue
		}
		if value.N != "" {
			key[attributeName] = &types.AttributeValueMemberN{Value: value.N}
			continue
		}
		return nil, fmt.Errorf("invalid cursor")
	}

	return key, nil
}

func attrString(item map[string]types.AttributeValue, name string) (string, error) {
	raw, ok := item[name]
	if !ok {
		return "", fmt.Errorf("missing attribute %s", name)
	}
	value, ok := raw.(*types.AttributeValueMemberS)
	if !ok || strings.TrimSpace(value.Value) == "" {
		return "", fmt.Errorf("invalid attribute %s", name)
	}
	return value.Value, nil
}

func optionalString(item map[string]types.AttributeValue, name string) string {
	raw, ok := item[name]
	if !ok {
		return ""
	}
	value, ok := raw.(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return value.Value
}

func attrInt64(item map[string]types.AttributeValue, name string) (int64, error) {
	raw, ok := item[name]
	if !ok {
		return 0, fmt.Errorf("missing attribute %s", name)
	}
	value, ok := raw.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("invalid attribute %s", name)
	}
	parsed, err := strconv.ParseInt(value.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid attribute %s: %w", name, err)
	}
	return parsed, nil
}

func optionalInt64(item map[string]types.AttributeValue, name string) int64 {
	raw, ok := item[name]
	if !ok {
		return 0
	}
	value, ok := raw.(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	parsed, err := strconv.ParseInt(value.Value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func optionalFloat64(item map[string]types.AttributeValue, name string) float64 {
	raw, ok := item[name]
	if !ok {
		return 0
	}
	value, ok := raw.(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	parsed, err := strconv.ParseFloat(value.Value, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func boolPointer(v bool) *bool {
	return &v
}

func int32Pointer(v int32) *int32 {
	return &v
}

func stringPointer(v string) *string {
	return &v
}
