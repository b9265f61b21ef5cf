package sqlinline

const QEnsureCreditAccount = `--sql 42d7932f-e2d9-4708-8aa7-888e7e24e2a1
with inserted as (
    insert into credit_accounts (user_id, credits, unlimited, lifetime_generations, first_bonus_claimed, created_at, updated_at)
    values ($1::uuid, $2::int, false, 0, false, now(), now())
    on conflict (user_id) do nothing
    returning user_id::text, credits, unlimited, lifetime_generations, first_bonus_claimed, updated_at
)
select * from inserted
union all
select user_id::text, credits, unlimited, lifetime_generations, first_bonus_claimed, updated_at
from credit_accounts
where user_id = $1::uuid
  and not exists (select 1 from inserted)
limit 1;
`

const QDebitCredits = `--sql 3dea1470-ad3b-4cde-99e2-1923f24a1a6e
with updated as (
    update credit_accounts set
        credits = case when unlimited then credits else credits - $2::int end,
        lifetime_generations = lifetime_generations + 1,
        updated_at = now()
    where user_id = $1::uuid
      and (unlimited or credits >= $2::int)
    returning user_id::text, credits, unlimited, lifetime_generations, first_bonus_claimed, updated_at
),
ledger as (
    insert into credit_transactions (id, user_id, delta, reason, created_at)
    select gen_random_uuid(), user_id::uuid, case when unlimited then 0 else -$2::int end, 'generation', now()
    from updated
)
select * from updated;
`

const QGrantCredits = `--sql a6c34874-4a0d-47c8-bd46-730c1ffdb1bd
with updated as (
    update credit_accounts set
        credits = credits + $2::int,
        updated_at = now()
    where user_id = $1::uuid
    returning user_id::text, credits, unlimited, lifetime_generations, first_bonus_claimed, updated_at
),
ledger as (
    insert into credit_transactions (id, user_id, delta, reason, created_at)
    select gen_random_uuid(), user_id::uuid, $2::int, $3::text, now()
    from updated
)
select * from updated;
`

const QSetUnlimited = `--sql e3b7281c-1f62-46d3-b551-7f7555d212e7
update credit_accounts set
    unlimited = $2::boolean,
    updated_at = now()
where user_id = $1::uuid
returning user_id::text, credits, unlimited, lifetime_generations, first_bonus_claimed, updated_at;
`

const QClaimFirstBonus = `--sql e51c11e1-6ad5-418a-90d0-9d4dc72f9e65
with updated as (
    update credit_accounts set
        credits = credits + $2::int,
        first_bonus_claimed = true,
        updated_at = now()
    where user_id = $1::uuid
      and not first_bonus_claimed
      and lifetime_generations = 0
    returning user_id::text, credits, unlimited, lifetime_generations, first_bonus_claimed, updated_at
),
ledger as (
    insert into credit_transactions (id, user_id, delta, reason, created_at)
    select gen_random_uuid(), user_id::uuid, $2::int, 'first_bonus', now()
    from updated
)
select * from updated;
`
