package sqlinline

const QInsertUsageEvent = `--sql e40f651c-a8b3-44c7-a911-bb8a0ed5f6ef
insert into usage_events(id, user_id, request_id, event_type, success, latency_ms, created_at, properties)
values (gen_random_uuid(), $1::uuid, nullif($2::text, '')::uuid, $3::text, $4::boolean, $5::int, now(), coalesce($6::jsonb, '{}'::jsonb));
`

const QListUsageEvents = `--sql d6461148-f5a3-4fae-98ba-3e2f371de8af
select id::text, user_id::text, coalesce(request_id::text, ''), event_type, success, latency_ms, properties, created_at
from usage_events
where user_id = $1::uuid
order by created_at desc
limit $2::int;
`
